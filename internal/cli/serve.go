package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"docsearch/framework/httpserver"
	"docsearch/internal/config"
	"docsearch/internal/web"
	"docsearch/internal/web/appcore"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web front end",
		Long: `Start the HTTP server with the home, search, document and browse pages.

The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  # Serve on the default address against a local backend
  docsearch serve

  # Custom address and backend
  docsearch serve --listen-addr :9000 --api-base-url http://search.internal:5000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := stateFrom(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, st)
		},
	}

	cmd.Flags().String("listen-addr", "", "Address to listen on (default: "+config.DefaultListenAddr+")")
	cmd.Flags().String("static-dir", "", "Directory served under /static/")
	cmd.Flags().Int("per-page", 0, "Documents per browse page")
	cmd.Flags().Int("similar-top-k", 0, "Similar documents shown on a document page")
	cmd.Flags().Int("search-top-k", 0, "Default number of search results")
	cmd.Flags().String("cache-html", "", "Cache-Control for HTML pages")
	cmd.Flags().String("cache-static", "", "Cache-Control for static assets")

	return cmd
}

func newHTTPHandler(st *cliState) (http.Handler, error) {
	client, err := newClient(st)
	if err != nil {
		return nil, err
	}

	cachePolicies := httpserver.DefaultCachePolicies()
	if strings.TrimSpace(st.cfg.CacheHTML) != "" {
		cachePolicies.HTML = st.cfg.CacheHTML
	}
	if strings.TrimSpace(st.cfg.CacheStatic) != "" {
		cachePolicies.Static = st.cfg.CacheStatic
	}

	appCtx := appcore.NewContext(client, appcore.Settings{
		PerPage:     st.cfg.PerPage,
		SimilarTopK: st.cfg.SimilarTopK,
		SearchTopK:  st.cfg.SearchTopK,
	}, st.logger)

	return httpserver.New(httpserver.Config[*appcore.Context]{
		AppContext:      appCtx,
		Handlers:        web.Handlers(),
		IsNotFoundError: appcore.IsNotFoundError,
		NotFoundPage:    web.NotFoundPage,
		ErrorPage:       web.ErrorPage,
		Static: httpserver.StaticMount{
			URLPrefix: "/static/",
			Dir:       st.cfg.StaticDir,
		},
		CachePolicies: cachePolicies,
		Logger:        st.logger,
	})
}

func runServe(ctx context.Context, st *cliState) error {
	handler, err := newHTTPHandler(st)
	if err != nil {
		return fmt.Errorf("handler setup failed: %w", err)
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    st.cfg.ListenAddr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		st.logger.Info("docsearch server listening", "addr", st.cfg.ListenAddr, "api_base_url", st.cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		st.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
