// Package docs provides the OpenAPI documentation for the restyle server.
//
// restyle API
//
//	@title			restyle API
//	@version		1.0
//	@description	Prompt catalog and photo transformation API.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/restyle
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http
package docs

//go:generate swag init -g ../cmd/restyle/serve.go -o . --outputTypes go --parseInternal
