package preview

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	foundationerrors "git.home.luguber.info/inful/docreflect/internal/foundation/errors"
	"git.home.luguber.info/inful/docreflect/internal/logfields"
)

// ServeSite serves the rendered site directory over HTTP until ctx is
// canceled. Pages are read from disk per request, so a finished rebuild is
// visible on the next reload without restarting the server. Requests for
// pages that were never rendered get a classified JSON 404.
func ServeSite(ctx context.Context, addr, dir string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           siteHandler(dir),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Preview server shutdown failed", logfields.Error(err))
		}
	}()

	slog.Info("Preview server listening", logfields.URL(addr), logfields.Path(dir))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return foundationerrors.WrapError(err, foundationerrors.CategoryNetwork, "serve site preview").
			WithContext("addr", addr).
			Build()
	}
	return nil
}

// siteHandler wraps the file server so missing pages answer with the error
// layer's payload instead of the stock text 404.
func siteHandler(dir string) http.Handler {
	httpErrors := foundationerrors.NewHTTPErrorAdapter(nil)
	files := http.FileServer(http.Dir(dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if name == "/" {
			name = "/index.html"
		}
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name))); err != nil {
			httpErrors.WriteErrorResponse(w, r, foundationerrors.NotFoundError("page not rendered").
				Warning().
				WithContext("page", r.URL.Path).
				Build())
			return
		}
		files.ServeHTTP(w, r)
	})
}
