package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/restyle/internal/api"
	"github.com/jackzampolin/restyle/internal/catalog"
	"github.com/jackzampolin/restyle/internal/svcctx"
)

// AddCategoryRequest is the request body for creating a category.
type AddCategoryRequest struct {
	Name string `json:"name"`
}

// AddCategoryEndpoint handles POST /api/catalog/categories.
type AddCategoryEndpoint struct{}

func (e *AddCategoryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/catalog/categories", e.handler
}

func (e *AddCategoryEndpoint) RequiresCatalog() bool { return true }

// handler godoc
//
//	@Summary		Add a category
//	@Description	Appends an empty category. Names are unique and compared exactly.
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AddCategoryRequest	true	"Category name"
//	@Success		201		{object}	catalog.Category
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/catalog/categories [post]
func (e *AddCategoryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req AddCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cat, err := svcctx.CatalogFrom(r.Context()).AddCategory(r.Context(), req.Name)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

func (e *AddCategoryEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "category add <name>",
		Short: "Add an empty category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp catalog.Category
			if err := client.Post(cmd.Context(), "/api/catalog/categories", AddCategoryRequest{Name: args[0]}, &resp); err != nil {
				return err
			}
			fmt.Printf("Added category %q\n", resp.Name)
			return nil
		},
	}
}

// DeleteCategoryEndpoint handles DELETE /api/catalog/categories/{name}.
type DeleteCategoryEndpoint struct{}

func (e *DeleteCategoryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/catalog/categories/{name}", e.handler
}

func (e *DeleteCategoryEndpoint) RequiresCatalog() bool { return true }

// handler godoc
//
//	@Summary	Delete a category and its prompts
//	@Tags		catalog
//	@Param		name	path	string	true	"Category name"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/api/catalog/categories/{name} [delete]
func (e *DeleteCategoryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	if err := svcctx.CatalogFrom(r.Context()).DeleteCategory(r.Context(), r.PathValue("name")); err != nil {
		writeCatalogError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *DeleteCategoryEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "category delete <name>",
		Short: "Delete a category and all of its prompts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/catalog/categories/"+api.PathEscape(args[0]), nil); err != nil {
				return err
			}
			fmt.Printf("Deleted category %q\n", args[0])
			return nil
		},
	}
}
