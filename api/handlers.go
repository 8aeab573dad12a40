package api

import (
	"fmt"
	"net/http"

	"github.com/banachtech/volfit/calib"
	"github.com/banachtech/volfit/dates"
	"github.com/banachtech/volfit/engine"
	"github.com/banachtech/volfit/errs"
	"github.com/banachtech/volfit/optim"
	"github.com/banachtech/volfit/quote"
	"github.com/gin-gonic/gin"
)

type priceRequest struct {
	Type     string  `json:"type" binding:"required,oneof=call put"`
	Strike   float64 `json:"strike" binding:"required,gt=0"`
	Maturity string  `json:"maturity" binding:"required"`
	Points   int     `json:"points"`
}

func (server *Server) price(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	tenor, err := dates.ParsePeriod(req.Maturity)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "msg": fmt.Sprintf("Invalid maturity tenor: %s", err)})
		return
	}
	typ := engine.Call
	if req.Type == "put" {
		typ = engine.Put
	}

	eng, err := engine.NewAnalyticBatesEngine(server.mdl, server.ctx, server.dc, req.Points)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	exercise := server.cal.Advance(server.ctx.EvaluationDate(), tenor, dates.Following)
	p, err := eng.Price(engine.VanillaSpec{Type: typ, Strike: req.Strike, Exercise: exercise})
	if err != nil {
		status := http.StatusInternalServerError
		if errs.IsDomain(err) {
			status = http.StatusBadRequest
		}
		c.AbortWithStatusJSON(status, errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": req, "exercise": exercise.Format(dates.Layout), "price": p})
}

type volRequest struct {
	Strike      float64 `json:"strike" binding:"required,gt=0"`
	Maturity    string  `json:"maturity" binding:"required"`
	Extrapolate bool    `json:"extrapolate"`
}

func (server *Server) volatility(c *gin.Context) {
	var req volRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	tenor, err := dates.ParsePeriod(req.Maturity)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "msg": fmt.Sprintf("Invalid maturity tenor: %s", err)})
		return
	}
	t := server.surface.TimeFromReference(server.surface.OptionDateFromTenor(tenor))
	v, err := server.surface.Volatility(t, 0, req.Strike, req.Extrapolate)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"strike": req.Strike, "maturity": req.Maturity, "vol": v})
}

type calibrateRequest struct {
	MaxIterations int `json:"max_iterations"`
}

func (server *Server) calibrate(c *gin.Context) {
	var req calibrateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
			return
		}
	}
	if req.MaxIterations <= 0 {
		req.MaxIterations = 400
	}

	helpers, err := server.buildHelpers()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	ec := optim.NewEndCriteria(req.MaxIterations, 40, 1e-8, 1e-8, 1e-8)
	res, err := calib.Calibrate(server.mdl, helpers, optim.NelderMead{}, ec)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	sse, err := calib.SumSquaredErrors(helpers)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reason":      res.Reason.String(),
		"iterations":  res.Iterations,
		"evaluations": res.Evaluations,
		"sse":         sse,
		"params": gin.H{
			"v0":     server.mdl.V0,
			"kappa":  server.mdl.Kappa,
			"theta":  server.mdl.Theta,
			"sigma":  server.mdl.Sigma,
			"rho":    server.mdl.Rho,
			"lambda": server.mdl.Lambda,
			"nu":     server.mdl.Nu,
			"delta":  server.mdl.Delta,
		},
	})
}

// buildHelpers turns the quote sheet into one calibration helper per grid
// cell, all bound to a single analytic engine over the server's model.
func (server *Server) buildHelpers() ([]*calib.Helper, error) {
	eng, err := engine.NewAnalyticBatesEngine(server.mdl, server.ctx, server.dc, 0)
	if err != nil {
		return nil, err
	}
	s0 := quote.NewSimple(server.market.S0)
	tenors := server.market.MaturityTenors()
	var helpers []*calib.Helper
	for i, strike := range server.market.Strikes {
		for j, tenor := range tenors {
			v := quote.NewSimple(server.market.Vols.At(i, j))
			h, err := calib.NewHelper(tenor, server.cal, server.ctx, server.dc,
				s0, strike, v, server.riskFree, server.dividend)
			if err != nil {
				return nil, err
			}
			if err := h.SetPricingEngine(eng); err != nil {
				return nil, err
			}
			helpers = append(helpers, h)
		}
	}
	return helpers, nil
}
