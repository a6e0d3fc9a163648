package endpoints

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/restyle/internal/api"
	"github.com/jackzampolin/restyle/internal/catalog"
	"github.com/jackzampolin/restyle/internal/svcctx"
)

// PromptRequest is the request body for adding or replacing a prompt.
type PromptRequest struct {
	Label string `json:"label"`
	Body  string `json:"body"`
}

// PromptResponse is a prompt with its position in the category.
type PromptResponse struct {
	Category string `json:"category"`
	Index    int    `json:"index"`
	catalog.Prompt
}

func promptPath(category string, index int) string {
	return "/api/catalog/categories/" + api.PathEscape(category) + "/prompts/" + strconv.Itoa(index)
}

func indexArg(s string) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("index must be a number, got %q", s)
	}
	return idx, nil
}

// GetPromptEndpoint handles GET /api/catalog/categories/{name}/prompts/{index}.
type GetPromptEndpoint struct{}

func (e *GetPromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/catalog/categories/{name}/prompts/{index}", e.handler
}

func (e *GetPromptEndpoint) RequiresCatalog() bool { return true }

// handler godoc
//
//	@Summary	Get a prompt
//	@Tags		prompts
//	@Produce	json
//	@Param		name	path		string	true	"Category name"
//	@Param		index	path		int		true	"Zero-based prompt position"
//	@Success	200		{object}	PromptResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/catalog/categories/{name}/prompts/{index} [get]
func (e *GetPromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	idx, err := pathIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := r.PathValue("name")

	p, err := svcctx.CatalogFrom(r.Context()).Prompt(r.Context(), name, idx)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PromptResponse{Category: name, Index: idx, Prompt: p})
}

func (e *GetPromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt get <category> <index>",
		Short: "Show one prompt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := indexArg(args[1])
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			var resp PromptResponse
			if err := client.Get(cmd.Context(), promptPath(args[0], idx), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// AddPromptEndpoint handles POST /api/catalog/categories/{name}/prompts.
type AddPromptEndpoint struct{}

func (e *AddPromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/catalog/categories/{name}/prompts", e.handler
}

func (e *AddPromptEndpoint) RequiresCatalog() bool { return true }

// handler godoc
//
//	@Summary		Append a prompt to a category
//	@Description	Labels need not be unique and may be empty.
//	@Tags			prompts
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string			true	"Category name"
//	@Param			request	body		PromptRequest	true	"Prompt"
//	@Success		201		{object}	PromptResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/catalog/categories/{name}/prompts [post]
func (e *AddPromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req PromptRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := r.PathValue("name")
	store := svcctx.CatalogFrom(r.Context())

	p, index, err := store.AddPrompt(r.Context(), name, req.Label, req.Body)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, PromptResponse{Category: name, Index: index, Prompt: p})
}

func (e *AddPromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt add <category> <label> <body>",
		Short: "Append a prompt to a category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := "/api/catalog/categories/" + api.PathEscape(args[0]) + "/prompts"
			var resp PromptResponse
			if err := client.Post(cmd.Context(), path, PromptRequest{Label: args[1], Body: args[2]}, &resp); err != nil {
				return err
			}
			fmt.Printf("Added %q to %s at index %d\n", resp.Label, resp.Category, resp.Index)
			return nil
		},
	}
}

// UpdatePromptEndpoint handles PUT /api/catalog/categories/{name}/prompts/{index}.
type UpdatePromptEndpoint struct{}

func (e *UpdatePromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/catalog/categories/{name}/prompts/{index}", e.handler
}

func (e *UpdatePromptEndpoint) RequiresCatalog() bool { return true }

// handler godoc
//
//	@Summary	Replace a prompt in place
//	@Tags		prompts
//	@Accept		json
//	@Produce	json
//	@Param		name	path		string			true	"Category name"
//	@Param		index	path		int				true	"Zero-based prompt position"
//	@Param		request	body		PromptRequest	true	"Replacement prompt"
//	@Success	200		{object}	PromptResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	500		{object}	ErrorResponse
//	@Router		/api/catalog/categories/{name}/prompts/{index} [put]
func (e *UpdatePromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	idx, err := pathIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req PromptRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := r.PathValue("name")

	if err := svcctx.CatalogFrom(r.Context()).UpdatePrompt(r.Context(), name, idx, req.Label, req.Body); err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PromptResponse{
		Category: name,
		Index:    idx,
		Prompt:   catalog.Prompt{Label: req.Label, Body: req.Body},
	})
}

func (e *UpdatePromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt update <category> <index> <label> <body>",
		Short: "Replace the label and body of a prompt",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := indexArg(args[1])
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			var resp PromptResponse
			if err := client.Put(cmd.Context(), promptPath(args[0], idx), PromptRequest{Label: args[2], Body: args[3]}, &resp); err != nil {
				return err
			}
			fmt.Printf("Updated %s[%d]\n", resp.Category, resp.Index)
			return nil
		},
	}
}

// DeletePromptEndpoint handles DELETE /api/catalog/categories/{name}/prompts/{index}.
type DeletePromptEndpoint struct{}

func (e *DeletePromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/catalog/categories/{name}/prompts/{index}", e.handler
}

func (e *DeletePromptEndpoint) RequiresCatalog() bool { return true }

// handler godoc
//
//	@Summary		Delete a prompt
//	@Description	Later prompts shift down by one. The category stays even when it becomes empty.
//	@Tags			prompts
//	@Param			name	path	string	true	"Category name"
//	@Param			index	path	int		true	"Zero-based prompt position"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/catalog/categories/{name}/prompts/{index} [delete]
func (e *DeletePromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	idx, err := pathIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := svcctx.CatalogFrom(r.Context()).DeletePrompt(r.Context(), r.PathValue("name"), idx); err != nil {
		writeCatalogError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *DeletePromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt delete <category> <index>",
		Short: "Delete a prompt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := indexArg(args[1])
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), promptPath(args[0], idx), nil); err != nil {
				return err
			}
			fmt.Printf("Deleted %s[%d]\n", args[0], idx)
			return nil
		},
	}
}
