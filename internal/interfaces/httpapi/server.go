package httpapi

import (
	"net/http"

	"github.com/riskibarqy/cricket-auction/internal/platform/logging"
)

type RouterConfig struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	InternalJobToken   string
}

func NewRouter(handler *Handler, verifier TokenVerifier, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled)
	registerAuctionRoutes(mux, handler, RequireAuth(verifier))
	registerContractRoutes(mux, handler, RequireAuth(verifier))
	registerPlayerRoutes(mux, handler)
	registerSalaryCapRoutes(mux, handler, RequireAuth(verifier))
	registerInternalJobRoutes(mux, handler, RequireInternalJobToken(cfg.InternalJobToken))

	return chain(mux,
		Tracing(),
		RequestID(),
		AccessLog(logger),
		CORS(cfg.CORSAllowedOrigins),
		Recover(logger),
	)
}
