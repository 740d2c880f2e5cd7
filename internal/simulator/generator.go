package simulator

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/auctionengine/internal/config"
	"github.com/efreitasn/auctionengine/internal/domain"
	"github.com/efreitasn/auctionengine/internal/service"
)

// priceDecimals is the precision of generated prices.
const priceDecimals = 2

// Submitter accepts order requests. *service.OrderService satisfies it.
type Submitter interface {
	SubmitOrder(req service.SubmitOrderRequest) (*service.SubmitResult, error)
}

// Generator produces random limit orders and feeds them to a Submitter on
// a fixed interval.
type Generator struct {
	cfg       config.SimulatorConfig
	submitter Submitter
	rng       *rand.Rand
	logger    *slog.Logger
}

// NewGenerator creates a generator. A nil rng is replaced by one seeded
// from the runtime's random source.
func NewGenerator(cfg config.SimulatorConfig, submitter Submitter, rng *rand.Rand, logger *slog.Logger) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{
		cfg:       cfg,
		submitter: submitter,
		rng:       rng,
		logger:    logger,
	}
}

// Next draws one order: a fair coin for the side, a uniformly chosen
// ticker, a quantity in [MinQuantity, MaxQuantity] and a price in
// [MinPrice, MaxPrice) truncated to cents.
func (g *Generator) Next() service.SubmitOrderRequest {
	side := domain.SideSell
	if g.rng.IntN(2) == 0 {
		side = domain.SideBuy
	}

	ticker := g.cfg.Tickers[g.rng.IntN(len(g.cfg.Tickers))]
	quantity := g.cfg.MinQuantity + g.rng.Int64N(g.cfg.MaxQuantity-g.cfg.MinQuantity+1)

	span := g.cfg.MaxPrice.Sub(g.cfg.MinPrice)
	price := g.cfg.MinPrice.Add(span.Mul(decimal.NewFromFloat(g.rng.Float64()))).Truncate(priceDecimals)
	if price.LessThan(g.cfg.MinPrice) {
		price = g.cfg.MinPrice
	}

	return service.SubmitOrderRequest{
		Side:     side,
		Symbol:   ticker,
		Quantity: quantity,
		Price:    price,
	}
}

// Step submits one generated order.
func (g *Generator) Step() (*service.SubmitResult, error) {
	req := g.Next()
	res, err := g.submitter.SubmitOrder(req)
	if err != nil {
		g.logger.Error("simulated order rejected",
			slog.String("symbol", req.Symbol),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return res, nil
}

// Start launches a background goroutine that submits one order per
// interval. It stops when ctx is cancelled.
func (g *Generator) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(g.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				g.Step()
			}
		}
	}()
}
