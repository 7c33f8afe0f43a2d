package observability

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/akave-ai/logrelay/internal/config"
)

// NewApplication starts the New Relic agent. It returns nil, nil when New
// Relic is disabled.
func NewApplication(cfg *config.ObservabilityConfig, log zerolog.Logger) (*newrelic.Application, error) {
	if !cfg.NewRelic.Enabled {
		return nil, nil
	}
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.NewRelicAppName()),
		newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		func(c *newrelic.Config) {
			c.Labels = map[string]string{"env": cfg.Environment}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("new relic: %w", err)
	}
	log.Info().Str("app", cfg.NewRelicAppName()).Msg("new relic agent started")
	return app, nil
}

// Middleware records one transaction per request, named after the matched
// route. Responses with status >= 500 are reported as errors. The
// transaction is placed in the request context so outbound calls made with
// a RoundTripper-wrapped client attach to it.
func Middleware(app *newrelic.Application) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			txn := app.StartTransaction(req.Method + " " + c.Path())
			defer txn.End()

			txn.SetWebRequestHTTP(req)
			c.Response().Writer = txn.SetWebResponse(c.Response().Writer)
			c.SetRequest(newrelic.RequestWithTransactionContext(req, txn))

			err := next(c)
			if err != nil {
				txn.NoticeError(err)
			} else if status := c.Response().Status; status >= http.StatusInternalServerError {
				txn.NoticeError(fmt.Errorf("%s %s: status %d", req.Method, c.Path(), status))
			}
			return err
		}
	}
}

// HTTPClient returns a client whose transport reports external segments to
// the transaction found in each request's context. It returns nil when app is
// nil so callers keep their default client.
func HTTPClient(app *newrelic.Application) *http.Client {
	if app == nil {
		return nil
	}
	return &http.Client{Transport: newrelic.NewRoundTripper(http.DefaultTransport)}
}
