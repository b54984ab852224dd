package quotes

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// Quote is the normalized per-symbol record. Every field but Symbol may be
// absent and is then serialized as null.
type Quote struct {
	Symbol        string
	Price         decimal.NullDecimal
	PreviousClose decimal.NullDecimal
	Open          decimal.NullDecimal
	DayHigh       decimal.NullDecimal
	DayLow        decimal.NullDecimal
	Volume        *int64
	MarketCap     *int64
	High52Week    decimal.NullDecimal
	Low52Week     decimal.NullDecimal
}

type quoteOut struct {
	Symbol        string          `json:"symbol"`
	Price         json.RawMessage `json:"price"`
	PreviousClose json.RawMessage `json:"previous_close"`
	Open          json.RawMessage `json:"open"`
	DayHigh       json.RawMessage `json:"day_high"`
	DayLow        json.RawMessage `json:"day_low"`
	Volume        *int64          `json:"volume"`
	MarketCap     *int64          `json:"market_cap"`
	High52Week    json.RawMessage `json:"52_week_high"`
	Low52Week     json.RawMessage `json:"52_week_low"`
}

type quoteIn struct {
	Symbol        string              `json:"symbol"`
	Price         decimal.NullDecimal `json:"price"`
	PreviousClose decimal.NullDecimal `json:"previous_close"`
	Open          decimal.NullDecimal `json:"open"`
	DayHigh       decimal.NullDecimal `json:"day_high"`
	DayLow        decimal.NullDecimal `json:"day_low"`
	Volume        *int64              `json:"volume"`
	MarketCap     *int64              `json:"market_cap"`
	High52Week    decimal.NullDecimal `json:"52_week_high"`
	Low52Week     decimal.NullDecimal `json:"52_week_low"`
}

// number renders d as a bare JSON number, or null.
func number(d decimal.NullDecimal) json.RawMessage {
	if !d.Valid {
		return json.RawMessage("null")
	}
	return json.RawMessage(d.Decimal.String())
}

// MarshalJSON writes decimals as JSON numbers rather than decimal's
// default quoted strings.
func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(quoteOut{
		Symbol:        q.Symbol,
		Price:         number(q.Price),
		PreviousClose: number(q.PreviousClose),
		Open:          number(q.Open),
		DayHigh:       number(q.DayHigh),
		DayLow:        number(q.DayLow),
		Volume:        q.Volume,
		MarketCap:     q.MarketCap,
		High52Week:    number(q.High52Week),
		Low52Week:     number(q.Low52Week),
	})
}

func (q *Quote) UnmarshalJSON(b []byte) error {
	var in quoteIn
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*q = Quote(in)
	return nil
}

// Result is either a Quote or a per-symbol failure. It serializes as the
// quote object or as {"error": "..."}.
type Result struct {
	Quote *Quote
	Err   string
}

// Failure builds a failed Result from err.
func Failure(err error) Result {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Result{Err: msg}
}

// Success wraps q in a Result.
func Success(q Quote) Result { return Result{Quote: &q} }

// OK reports whether r carries a quote.
func (r Result) OK() bool { return r.Quote != nil }

type failureJSON struct {
	Error string `json:"error"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	if r.Quote != nil {
		return r.Quote.MarshalJSON()
	}
	return json.Marshal(failureJSON{Error: r.Err})
}

func (r *Result) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return errors.New("quote result cannot be null")
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	if raw, ok := probe["error"]; ok {
		var f failureJSON
		if err := json.Unmarshal(raw, &f.Error); err != nil {
			return err
		}
		*r = Result{Err: f.Error}
		return nil
	}
	var q Quote
	if err := q.UnmarshalJSON(b); err != nil {
		return err
	}
	*r = Result{Quote: &q}
	return nil
}
