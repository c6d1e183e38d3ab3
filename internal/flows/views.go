package flows

import (
	"context"
	"fmt"
	"time"

	"github.com/ginjaninja78/finreport/internal/aggregate"
	"github.com/ginjaninja78/finreport/internal/report"
)

// ViewsParams are the inputs of the views flow.
type ViewsParams struct {
	// At selects the greeting; zero means now.
	At time.Time
}

// Views builds the main report, writes it, reads it back and prints it.
func (r *Runner) Views(ctx context.Context, p ViewsParams) (report.Document, error) {
	log := r.startRun("views")
	started := r.now()

	at := p.At
	if at.IsZero() {
		at = started
	}

	set, err := r.loader.Load(ctx)
	if err != nil {
		return report.Document{}, fmt.Errorf("views: %w", err)
	}

	doc := report.Document{
		Greeting:        Greeting(at),
		TotalExpenses:   aggregate.TotalExpenses(set),
		CardData:        aggregate.CardRollup(set),
		TopTransactions: aggregate.TopN(set, r.settings.TopN),
		CurrencyRates:   make([]report.CurrencyRate, 0, len(r.settings.CurrencyCodes)),
		StockPrices:     make([]report.StockPrice, 0, len(r.settings.StockSymbols)),
	}

	for _, code := range r.settings.CurrencyCodes {
		rate, err := r.rates.Rate(ctx, code)
		if err != nil {
			log.Error().Err(err).Str("currency", code).Msg("currency lookup failed")
			return report.Document{}, fmt.Errorf("views: %w", err)
		}
		log.Debug().Str("currency", code).Stringer("rate", rate).Msg("currency rate received")
		doc.CurrencyRates = append(doc.CurrencyRates, report.CurrencyRate{Currency: code, Rate: rate})
	}

	for _, symbol := range r.settings.StockSymbols {
		price, err := r.prices.High(ctx, symbol)
		if err != nil {
			log.Error().Err(err).Str("stock", symbol).Msg("stock lookup failed")
			return report.Document{}, fmt.Errorf("views: %w", err)
		}
		log.Debug().Str("stock", symbol).Stringer("price", price).Msg("stock price received")
		doc.StockPrices = append(doc.StockPrices, report.StockPrice{Stock: symbol, Price: price})
	}

	path, err := r.writeReport(log, r.names.Views, doc)
	if err != nil {
		return report.Document{}, fmt.Errorf("views: %w", err)
	}

	var stored report.Document
	if err := report.ReadJSON(path, &stored); err != nil {
		return report.Document{}, fmt.Errorf("views: %w", err)
	}
	if err := r.print(stored); err != nil {
		return report.Document{}, fmt.Errorf("views: %w", err)
	}

	log.Info().
		Int("transactions", len(set)).
		Int("cards", len(doc.CardData)).
		Dur("duration", r.now().Sub(started)).
		Msg("flow finished")
	return stored, nil
}
