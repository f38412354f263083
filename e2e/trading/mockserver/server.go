// Package mockserver provides an in-memory Binance spot REST server for end-to-end tests.
// It serves klines from a configurable bar series and fills market orders at the last close.
package mockserver

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// quantityPrecision matches the base precision the execution provider rounds to.
const quantityPrecision = 8

var quoteAssets = []string{"USDT", "BUSD", "USDC", "BTC"}

// Order is a market order the server accepted.
type Order struct {
	OrderID             int64
	ClientOrderID       string
	Symbol              string
	Side                string
	Status              string
	QuoteOrderQty       float64
	Quantity            float64
	ExecutedQty         float64
	CummulativeQuoteQty float64
	Price               float64
}

// ServerConfig holds the initial state of the server.
type ServerConfig struct {
	// InitialBalances maps asset to free balance
	InitialBalances map[string]float64
	// Klines maps symbol to the bars served by /api/v3/klines, ascending by time
	Klines map[string]types.BarSeries
}

// MockBinanceServer mimics the subset of the Binance spot REST API the bot uses.
type MockBinanceServer struct {
	mu sync.RWMutex

	httpServer *http.Server
	listener   net.Listener

	balances    map[string]float64
	klines      map[string]types.BarSeries
	orders      []Order
	orderIDSeq  int64
	orderStatus string
	klineCalls  int
}

// NewMockBinanceServer creates a server from config.
func NewMockBinanceServer(config ServerConfig) *MockBinanceServer {
	server := &MockBinanceServer{
		balances:    make(map[string]float64),
		klines:      make(map[string]types.BarSeries),
		orderIDSeq:  1000,
		orderStatus: "FILLED",
	}

	for asset, amount := range config.InitialBalances {
		server.balances[asset] = amount
	}

	for symbol, series := range config.Klines {
		server.klines[symbol] = series
	}

	return server
}

// Router returns the REST routes, usable with httptest.
func (s *MockBinanceServer) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/v3/klines", s.handleKlines).Methods(http.MethodGet)
	router.HandleFunc("/api/v3/account", s.handleAccount).Methods(http.MethodGet)
	router.HandleFunc("/api/v3/order", s.handleCreateOrder).Methods(http.MethodPost)

	return router
}

// Start listens on address. An empty address or ":0" picks a free port.
func (s *MockBinanceServer) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to create listener", err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	return nil
}

// Stop shuts the server down.
func (s *MockBinanceServer) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// BaseURL returns the URL to hand to the Binance clients.
func (s *MockBinanceServer) BaseURL() string {
	if s.listener == nil {
		return ""
	}

	return "http://" + s.listener.Addr().String()
}

// SetKlines replaces the bars served for symbol.
func (s *MockBinanceServer) SetKlines(symbol string, series types.BarSeries) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.klines[symbol] = series
}

// SetOrderStatus makes every following order come back with status, e.g. REJECTED.
func (s *MockBinanceServer) SetOrderStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orderStatus = status
}

// Balance returns the free balance of asset.
func (s *MockBinanceServer) Balance(asset string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balances[asset]
}

// Orders returns a copy of the accepted orders, oldest first.
func (s *MockBinanceServer) Orders() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Order(nil), s.orders...)
}

// KlineCalls returns how many klines requests were served.
func (s *MockBinanceServer) KlineCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.klineCalls
}

// handleKlines handles GET /api/v3/klines. Without startTime the most recent
// limit bars are returned, like the real endpoint.
func (s *MockBinanceServer) handleKlines(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	symbol := query.Get("symbol")

	if symbol == "" || query.Get("interval") == "" {
		writeError(w, -1102, "Mandatory parameter was not sent")

		return
	}

	limit := 500
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, -1100, "Illegal characters found in parameter 'limit'")

			return
		}

		limit = parsed
	}

	s.mu.Lock()
	s.klineCalls++
	series, ok := s.klines[symbol]
	s.mu.Unlock()

	if !ok {
		writeError(w, -1121, "Invalid symbol.")

		return
	}

	var start, end time.Time
	if ms, err := strconv.ParseInt(query.Get("startTime"), 10, 64); err == nil {
		start = time.UnixMilli(ms)
	}

	if ms, err := strconv.ParseInt(query.Get("endTime"), 10, 64); err == nil {
		end = time.UnixMilli(ms)
	}

	selected := make(types.BarSeries, 0, len(series))

	for _, bar := range series {
		if !start.IsZero() && bar.Time.Before(start) {
			continue
		}

		if !end.IsZero() && bar.Time.After(end) {
			continue
		}

		selected = append(selected, bar)
	}

	if len(selected) > limit {
		if start.IsZero() {
			selected = selected[len(selected)-limit:]
		} else {
			selected = selected[:limit]
		}
	}

	interval := time.Minute
	if len(series) > 1 {
		interval = series[1].Time.Sub(series[0].Time)
	}

	klines := make([][]any, 0, len(selected))
	for _, bar := range selected {
		klines = append(klines, []any{
			bar.Time.UnixMilli(),
			formatFloat(bar.Open),
			formatFloat(bar.High),
			formatFloat(bar.Low),
			formatFloat(bar.Close),
			formatFloat(bar.Volume),
			bar.Time.Add(interval).UnixMilli() - 1,
			"0",
			0,
			"0",
			"0",
			"0",
		})
	}

	writeJSON(w, klines)
}

// handleAccount handles GET /api/v3/account. Signatures are not checked.
func (s *MockBinanceServer) handleAccount(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	balances := make([]map[string]string, 0, len(s.balances))
	for asset, free := range s.balances {
		balances = append(balances, map[string]string{
			"asset":  asset,
			"free":   formatFloat(free),
			"locked": formatFloat(0),
		})
	}

	writeJSON(w, map[string]any{
		"makerCommission": 10,
		"takerCommission": 10,
		"canTrade":        true,
		"canWithdraw":     true,
		"canDeposit":      true,
		"updateTime":      time.Now().UnixMilli(),
		"accountType":     "SPOT",
		"balances":        balances,
	})
}

// handleCreateOrder handles POST /api/v3/order for MARKET orders. Buys may be
// sized with quoteOrderQty or quantity, sells with quantity.
func (s *MockBinanceServer) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, -1102, "Failed to parse form")

		return
	}

	symbol := r.FormValue("symbol")
	side := r.FormValue("side")

	if symbol == "" || side == "" || r.FormValue("type") != "MARKET" {
		writeError(w, -1102, "Only MARKET orders with symbol and side are supported")

		return
	}

	quoteOrderQty, _ := strconv.ParseFloat(r.FormValue("quoteOrderQty"), 64)
	quantity, _ := strconv.ParseFloat(r.FormValue("quantity"), 64)

	s.mu.Lock()
	defer s.mu.Unlock()

	bar, ok := s.klines[symbol].Last()
	if !ok {
		writeError(w, -1121, "Invalid symbol.")

		return
	}

	base, quote := splitSymbol(symbol)
	price := bar.Close

	if side == "BUY" && quantity == 0 {
		quantity = roundDown(quoteOrderQty / price)
	}

	if quantity <= 0 {
		writeError(w, -1013, "Filter failure: LOT_SIZE")

		return
	}

	cost := quantity * price

	order := Order{
		ClientOrderID: r.FormValue("newClientOrderId"),
		Symbol:        symbol,
		Side:          side,
		Status:        s.orderStatus,
		QuoteOrderQty: quoteOrderQty,
		Quantity:      quantity,
		Price:         price,
	}

	if s.orderStatus == "FILLED" {
		switch side {
		case "BUY":
			if s.balances[quote] < cost {
				writeError(w, -2010, "Account has insufficient balance for requested action.")

				return
			}

			s.balances[quote] -= cost
			s.balances[base] += quantity
		case "SELL":
			if s.balances[base] < quantity {
				writeError(w, -2010, "Account has insufficient balance for requested action.")

				return
			}

			s.balances[base] -= quantity
			s.balances[quote] += cost
		default:
			writeError(w, -1100, "Illegal characters found in parameter 'side'")

			return
		}

		order.ExecutedQty = quantity
		order.CummulativeQuoteQty = cost
	}

	s.orderIDSeq++
	order.OrderID = s.orderIDSeq
	s.orders = append(s.orders, order)

	writeJSON(w, map[string]any{
		"symbol":              symbol,
		"orderId":             order.OrderID,
		"orderListId":         -1,
		"clientOrderId":       order.ClientOrderID,
		"transactTime":        time.Now().UnixMilli(),
		"price":               formatFloat(0),
		"origQty":             formatFloat(quantity),
		"executedQty":         formatFloat(order.ExecutedQty),
		"cummulativeQuoteQty": formatFloat(order.CummulativeQuoteQty),
		"status":              order.Status,
		"timeInForce":         "GTC",
		"type":                "MARKET",
		"side":                side,
	})
}

func splitSymbol(symbol string) (base, quote string) {
	for _, q := range quoteAssets {
		if strings.HasSuffix(symbol, q) && len(symbol) > len(q) {
			return strings.TrimSuffix(symbol, q), q
		}
	}

	return symbol[:len(symbol)/2], symbol[len(symbol)/2:]
}

func roundDown(quantity float64) float64 {
	multiplier := math.Pow10(quantityPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', quantityPrecision, 64)
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// writeError answers with the Binance error envelope.
func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "msg": msg})
}
