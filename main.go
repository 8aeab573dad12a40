package main

import (
	"fmt"
	"os"

	"github.com/banachtech/volfit/api"
	"github.com/banachtech/volfit/calib"
	"github.com/banachtech/volfit/data"
	"github.com/banachtech/volfit/dates"
	"github.com/banachtech/volfit/engine"
	"github.com/banachtech/volfit/model"
	"github.com/banachtech/volfit/optim"
	"github.com/banachtech/volfit/quote"
	"github.com/banachtech/volfit/rates"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
)

func main() {
	_ = godotenv.Load()

	market := data.DAXJuly2002()
	ctx := dates.NewContext(market.Settlement)
	cal := dates.TARGET(2000, 2010)
	dc := dates.Act365Fixed

	riskFree, err := market.RiskFreeCurve(dc)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	dividend := rates.Flat(market.DividendRate)

	proc := model.HestonProcess{
		RiskFree: riskFree,
		Dividend: dividend,
		S0:       quote.NewSimple(market.S0),
		V0:       0.0433,
		Kappa:    1.0,
		Theta:    0.0433,
		Sigma:    1.0,
		Rho:      0.0,
	}
	mdl := model.NewBates(proc, 1.1098, -0.1285, 0.1702)

	eng, err := engine.NewAnalyticBatesEngine(mdl, ctx, dc, 0)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}

	tenors := market.MaturityTenors()
	bar := progressBar(len(market.Strikes) * len(tenors))
	bar.Describe("building helpers")
	var helpers []*calib.Helper
	s0 := quote.NewSimple(market.S0)
	for i, strike := range market.Strikes {
		for j, tenor := range tenors {
			v := quote.NewSimple(market.Vols.At(i, j))
			h, err := calib.NewHelper(tenor, cal, ctx, dc, s0, strike, v, riskFree, dividend)
			if err != nil {
				fmt.Println(err)
				os.Exit(-1)
			}
			if err := h.SetPricingEngine(eng); err != nil {
				fmt.Println(err)
				os.Exit(-1)
			}
			helpers = append(helpers, h)
			bar.Add(1)
		}
	}
	bar.Finish()

	fmt.Println("calibrating jump diffusion to DAX sheet ...")
	ec := optim.NewEndCriteria(400, 40, 1e-8, 1e-8, 1e-8)
	res, err := calib.Calibrate(mdl, helpers, optim.NelderMead{}, ec)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	sse, err := calib.SumSquaredErrors(helpers)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}

	fmt.Printf("stopped: %s after %d iterations (%d evaluations)\n", res.Reason, res.Iterations, res.Evaluations)
	fmt.Printf("v0     = %.6f\n", mdl.V0)
	fmt.Printf("kappa  = %.6f\n", mdl.Kappa)
	fmt.Printf("theta  = %.6f\n", mdl.Theta)
	fmt.Printf("sigma  = %.6f\n", mdl.Sigma)
	fmt.Printf("rho    = %.6f\n", mdl.Rho)
	fmt.Printf("lambda = %.6f\n", mdl.Lambda)
	fmt.Printf("nu     = %.6f\n", mdl.Nu)
	fmt.Printf("delta  = %.6f\n", mdl.Delta)
	fmt.Printf("sse    = %.4f\n", sse)

	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		return
	}
	surface, err := market.Surface(cal, dc)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	surface.SetAllowExtrapolation(true)
	server := api.NewServer(ctx, cal, dc, market, mdl, riskFree, dividend, surface)
	if err := server.Start(address); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func progressBar(length int) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(
		length,
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetVisibility(true),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return bar
}
