package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/restyle/internal/api"
	"github.com/jackzampolin/restyle/internal/catalog"
	"github.com/jackzampolin/restyle/internal/svcctx"
)

// CatalogResponse is the full catalog plus where it was loaded from.
type CatalogResponse struct {
	Source     catalog.Source     `json:"source"`
	Categories []catalog.Category `json:"categories"`
}

// CategorySummary is one line of the names-only listing.
type CategorySummary struct {
	Name    string `json:"name"`
	Prompts int    `json:"prompts"`
}

// GetCatalogEndpoint handles GET /api/catalog.
type GetCatalogEndpoint struct{}

func (e *GetCatalogEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/catalog", e.handler
}

func (e *GetCatalogEndpoint) RequiresCatalog() bool { return true }

// handler godoc
//
//	@Summary		Get the prompt catalog
//	@Description	Returns every category and prompt in display order
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	CatalogResponse
//	@Failure		500	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/catalog [get]
func (e *GetCatalogEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.CatalogFrom(r.Context())
	c, err := store.Load(r.Context())
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CatalogResponse{
		Source:     store.Status().Source,
		Categories: c.Categories,
	})
}

func (e *GetCatalogEndpoint) Command(getServerURL func() string) *cobra.Command {
	var namesOnly bool
	cmd := &cobra.Command{
		Use:   "catalog list",
		Short: "Show the prompt catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp CatalogResponse
			if err := client.Get(cmd.Context(), "/api/catalog", &resp); err != nil {
				return err
			}
			if !namesOnly {
				return api.Output(resp)
			}
			summary := make([]CategorySummary, len(resp.Categories))
			for i, c := range resp.Categories {
				summary[i] = CategorySummary{Name: c.Name, Prompts: len(c.Prompts)}
			}
			return api.Output(summary)
		},
	}
	cmd.Flags().BoolVar(&namesOnly, "names", false, "Only list category names and prompt counts")
	return cmd
}

// ResetCatalogEndpoint handles POST /api/catalog/reset.
type ResetCatalogEndpoint struct{}

func (e *ResetCatalogEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/catalog/reset", e.handler
}

func (e *ResetCatalogEndpoint) RequiresCatalog() bool { return true }

// handler godoc
//
//	@Summary		Reset the catalog to the bundled defaults
//	@Description	Discards every user edit. The defaults are written to the overlay before the response.
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	CatalogResponse
//	@Failure		500	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/catalog/reset [post]
func (e *ResetCatalogEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c, err := svcctx.CatalogFrom(r.Context()).ResetToDefaults(r.Context())
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	svcctx.LoggerFrom(r.Context()).Info("catalog reset via api")
	writeJSON(w, http.StatusOK, CatalogResponse{Source: catalog.SourceDefaults, Categories: c.Categories})
}

func (e *ResetCatalogEndpoint) Command(getServerURL func() string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "catalog reset",
		Short: "Discard all edits and restore the default catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("this discards every custom category and prompt; re-run with --yes to confirm")
			}
			client := api.NewClient(getServerURL())
			var resp CatalogResponse
			if err := client.Post(cmd.Context(), "/api/catalog/reset", nil, &resp); err != nil {
				return err
			}
			fmt.Printf("Catalog reset: %d categories\n", len(resp.Categories))
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}
