package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OffersParsedTotal counts parsed offer strings by recognised kind.
	OffersParsedTotal *prometheus.CounterVec
	// MalformedOfferTotal counts non-empty offer strings that matched no rule.
	// A rising rate is a catalog data-quality signal, not a request failure.
	MalformedOfferTotal prometheus.Counter
	// QuoteRequestsTotal counts quote computations by outcome.
	QuoteRequestsTotal *prometheus.CounterVec
	// NudgesShownTotal counts hints that made it to the shopper.
	NudgesShownTotal prometheus.Counter
	// PriceMismatchTotal counts client-submitted totals rejected at checkout.
	PriceMismatchTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers pricing domain collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OffersParsedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_parsed_total",
			Help:      "Count of parsed offer strings by kind.",
		}, []string{"kind"})
		MalformedOfferTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_offers_total",
			Help:      "Count of non-empty offer strings that matched no grammar rule.",
		})
		QuoteRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_requests_total",
			Help:      "Count of cart quote computations by result.",
		}, []string{"result"})
		NudgesShownTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nudges_shown_total",
			Help:      "Count of buy-more nudge hints shown to shoppers.",
		})
		PriceMismatchTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_mismatch_total",
			Help:      "Count of client totals rejected by server-side revalidation.",
		})

		mustRegisterCollector(reg, OffersParsedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OffersParsedTotal = v
			}
		})
		mustRegisterCollector(reg, MalformedOfferTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				MalformedOfferTotal = v
			}
		})
		mustRegisterCollector(reg, QuoteRequestsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteRequestsTotal = v
			}
		})
		mustRegisterCollector(reg, NudgesShownTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				NudgesShownTotal = v
			}
		})
		mustRegisterCollector(reg, PriceMismatchTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				PriceMismatchTotal = v
			}
		})
	})
}

// CountOfferParsed increments the per-kind parse counter when registered.
func CountOfferParsed(kind string) {
	if OffersParsedTotal != nil {
		OffersParsedTotal.WithLabelValues(kind).Inc()
	}
}

// CountMalformedOffer increments the malformed offer counter when registered.
func CountMalformedOffer() {
	if MalformedOfferTotal != nil {
		MalformedOfferTotal.Inc()
	}
}

// CountQuote increments the quote counter for the given result when registered.
func CountQuote(result string) {
	if QuoteRequestsTotal != nil {
		QuoteRequestsTotal.WithLabelValues(result).Inc()
	}
}

// CountNudgeShown increments the shown-nudge counter when registered.
func CountNudgeShown() {
	if NudgesShownTotal != nil {
		NudgesShownTotal.Inc()
	}
}

// CountPriceMismatch increments the mismatch counter when registered.
func CountPriceMismatch() {
	if PriceMismatchTotal != nil {
		PriceMismatchTotal.Inc()
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
