package handler

import (
	"net/http"
	"strconv"
	"strings"
)

// conversionResponse is the JSON shape of GET /lookup/currency.
type conversionResponse struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
	Result float64 `json:"result"`
	Rate   float64 `json:"rate"`
}

// GetWeather handles GET /lookup/weather?city=. Answers 503 when no
// weather provider is configured.
func (s *Server) GetWeather(w http.ResponseWriter, r *http.Request) {
	if s.weather == nil {
		writeError(w, http.StatusServiceUnavailable, "not_configured", "weather lookup is not configured")
		return
	}
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "city is required")
		return
	}

	report, err := s.weather.Fetch(r.Context(), city)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ConvertCurrency handles GET /lookup/currency?from=&to=&amount=.
func (s *Server) ConvertCurrency(w http.ResponseWriter, r *http.Request) {
	if s.currency == nil {
		writeError(w, http.StatusServiceUnavailable, "not_configured", "currency lookup is not configured")
		return
	}

	q := r.URL.Query()
	from := strings.ToUpper(strings.TrimSpace(q.Get("from")))
	to := strings.ToUpper(strings.TrimSpace(q.Get("to")))
	if len(from) != 3 || len(to) != 3 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "from and to must be 3-letter currency codes")
		return
	}
	amount, err := strconv.ParseFloat(q.Get("amount"), 64)
	if err != nil || amount < 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "amount must be a non-negative number")
		return
	}

	conv, err := s.currency.Convert(r.Context(), amount, from, to)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conversionResponse{
		From:   from,
		To:     to,
		Amount: amount,
		Result: conv.Amount,
		Rate:   conv.Rate,
	})
}

// GetCountry handles GET /lookup/country?destination=. The destination may
// be a bare country name or a "City, Country" string.
func (s *Server) GetCountry(w http.ResponseWriter, r *http.Request) {
	if s.countries == nil {
		writeError(w, http.StatusServiceUnavailable, "not_configured", "country lookup is not configured")
		return
	}
	destination := strings.TrimSpace(r.URL.Query().Get("destination"))
	if destination == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "destination is required")
		return
	}

	info, err := s.countries.Lookup(r.Context(), destination)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
