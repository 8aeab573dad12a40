package api

import (
	"github.com/banachtech/volfit/data"
	"github.com/banachtech/volfit/dates"
	"github.com/banachtech/volfit/model"
	"github.com/banachtech/volfit/rates"
	"github.com/banachtech/volfit/vol"
	"github.com/gin-gonic/gin"
)

// Server serves HTTP requests for the vol pricer service. It holds a
// calibrated model alongside the market snapshot it was fitted to; the
// calibrate endpoint refits in place.
type Server struct {
	ctx      *dates.Context
	cal      dates.Calendar
	dc       dates.DayCounter
	market   data.Market
	mdl      *model.Bates
	riskFree rates.TermStructure
	dividend rates.TermStructure
	surface  *vol.Surface
	router   *gin.Engine
}

// NewServer creates a new HTTP server and sets up routing.
func NewServer(ctx *dates.Context, cal dates.Calendar, dc dates.DayCounter,
	market data.Market, mdl *model.Bates,
	riskFree, dividend rates.TermStructure, surface *vol.Surface) *Server {
	server := &Server{
		ctx:      ctx,
		cal:      cal,
		dc:       dc,
		market:   market,
		mdl:      mdl,
		riskFree: riskFree,
		dividend: dividend,
		surface:  surface,
	}
	server.setupRouter()
	return server
}

func (server *Server) setupRouter() {
	router := gin.Default()

	authRoutes := router.Group("/v1").Use(server.Authentication)
	authRoutes.POST("/price", server.price)
	authRoutes.POST("/vol", server.volatility)
	authRoutes.POST("/calibrate", server.calibrate)
	server.router = router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}
