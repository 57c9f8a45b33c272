package floor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	MaxBodyBytes = 1 << 20

	// AdminCredentialHeader carries the admin password for ledger deletes.
	AdminCredentialHeader = "X-Admin-Password"

	currentTableParam = "current"
)

type Handler struct {
	floor  *Floor
	logger apt.Logger
	config *apt.Config
	tlm    *telemetry.HTTP
}

func NewHandler(floor *Floor, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		floor:  floor,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.GetMenu)

	r.Get("/selection", h.GetSelection)
	r.Delete("/selection", h.ClearSelection)

	r.Route("/tables", func(r chi.Router) {
		r.Get("/", h.ListTables)
		r.Post("/reset-occupancy", h.ResetOccupancy)

		r.Route("/{table}", func(r chi.Router) {
			r.Post("/select", h.SelectTable)
			r.Get("/draft", h.GetDraft)
			r.Delete("/draft", h.ClearDraft)
			r.Post("/draft/items", h.AddItem)
			r.Post("/submit", h.Submit)
			r.Get("/orders", h.ListTableOrders)
			r.Post("/serve-ready", h.ServeReady)
			r.Post("/vacate", h.Vacate)
			r.Post("/vacate/confirm", h.ConfirmVacate)
			r.Delete("/vacate", h.CancelVacate)
		})
	})

	r.Route("/kitchen/orders", func(r chi.Router) {
		r.Get("/", h.ListKitchenOrders)
		r.Get("/{id}", h.GetKitchenOrder)
		r.Patch("/{id}", h.AdvanceKitchenOrder)
	})

	r.Route("/bills", func(r chi.Router) {
		r.Get("/", h.ListBills)
		r.Delete("/", h.PurgeBills)
		r.Get("/{id}", h.GetBill)
		r.Delete("/{id}", h.DeleteBill)
	})

	r.Get("/ledger/summary", h.LedgerSummary)
	r.Get("/reports/daily", h.GetDailyReport)
}

type AddItemRequest struct {
	MenuItemID int `json:"menu_item_id"`
}

type AdvanceStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetMenu")
	defer finish()

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"currency": CurrencySymbol,
		"sections": h.floor.Catalog().Sections(),
	}, nil)
}

func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSelection")
	defer finish()

	table, ok := h.floor.CurrentTable()
	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"table":    table,
		"selected": ok,
	}, nil)
}

func (h *Handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearSelection")
	defer finish()

	h.floor.Deselect()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"tables": h.floor.Tables(),
	}, nil)
}

func (h *Handler) ResetOccupancy(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ResetOccupancy")
	defer finish()
	log := h.log(r)

	cleared := h.floor.ResetOccupancy(r.Context())
	log.Info("occupancy reset", "cleared", cleared)

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"cleared": cleared,
	}, nil)
}

func (h *Handler) SelectTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SelectTable")
	defer finish()
	log := h.log(r)

	table, ok := h.tableParam(w, r, log)
	if !ok {
		return
	}

	if err := h.floor.SelectTable(r.Context(), table); err != nil {
		h.respondFloorError(w, log, "cannot select table", err)
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"table":    table,
		"selected": true,
	}, nil)
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetDraft")
	defer finish()
	log := h.log(r)

	table, ok := h.tableParam(w, r, log)
	if !ok {
		return
	}

	draft, err := h.floor.Draft(table)
	if err != nil {
		h.respondFloorError(w, log, "cannot read draft", err)
		return
	}

	apt.RespondSuccess(w, draft)
}

func (h *Handler) ClearDraft(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearDraft")
	defer finish()
	log := h.log(r)

	table, ok := h.tableParam(w, r, log)
	if !ok {
		return
	}

	if err := h.floor.ClearDraft(r.Context(), table); err != nil {
		h.respondFloorError(w, log, "cannot clear draft", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddItem")
	defer finish()
	log := h.log(r)

	table, ok := h.tableParam(w, r, log)
	if !ok {
		return
	}

	var req AddItemRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	item, err := h.floor.AddItem(r.Context(), table, req.MenuItemID)
	if err != nil {
		h.respondFloorError(w, log, "cannot add item", err)
		return
	}

	draft, err := h.floor.Draft(table)
	if err != nil {
		h.respondFloorError(w, log, "cannot read draft", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, map[string]interface{}{
		"item":  item,
		"draft": draft,
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Submit")
	defer finish()
	log := h.log(r)

	table, ok := h.tableParam(w, r, log)
	if !ok {
		return
	}

	order, err := h.floor.Submit(r.Context(), table)
	if err != nil {
		h.respondFloorError(w, log, "cannot submit draft", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, order.View())
}

func (h *Handler) ListTableOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTableOrders")
	defer finish()
	log := h.log(r)

	table, ok := h.tableParam(w, r, log)
	if !ok {
		return
	}

	orders, err := h.floor.OrdersForTable(table)
	if err != nil {
		h.respondFloorError(w, log, "cannot list table orders", err)
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"orders":             orders,
		"active_order_count": h.floor.ActiveOrderCount(table),
	}, nil)
}

func (h *Handler) ServeReady(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ServeReady")
	defer finish()
	log := h.log(r)

	table, ok := h.tableParam(w, r, log)
	if !ok {
		return
	}

	served, err := h.floor.MarkAllReadyAsServed(r.Context(), table)
	if err != nil {
		h.respondFloorError(w, log, "cannot serve ready orders", err)
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"served": served,
	}, nil)
}

func (h *Handler) Vacate(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Vacate")
	defer finish()
	log := h.log(r)

	table, ok := h.tableParam(w, r, log)
	if !ok {
		return
	}

	preview, err := h.floor.Vacate(r.Context(), table)
	if err != nil {
		h.respondFloorError(w, log, "cannot prepare settlement", err)
		return
	}

	apt.RespondSuccess(w, preview)
}

func (h *Handler) ConfirmVacate(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ConfirmVacate")
	defer finish()
	log := h.log(r)

	table, ok := h.tableParam(w, r, log)
	if !ok {
		return
	}

	bill, err := h.floor.ConfirmVacate(r.Context(), table)
	if err != nil {
		h.respondFloorError(w, log, "cannot confirm settlement", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, bill)
}

func (h *Handler) CancelVacate(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelVacate")
	defer finish()
	log := h.log(r)

	table, ok := h.tableParam(w, r, log)
	if !ok {
		return
	}

	h.floor.CancelVacate(table)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListKitchenOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListKitchenOrders")
	defer finish()
	log := h.log(r)

	filter := r.URL.Query().Get("status")
	orders, err := h.floor.KitchenOrders(filter)
	if err != nil {
		log.Debug("invalid status filter", "status", filter)
		apt.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
	}, nil)
}

func (h *Handler) GetKitchenOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetKitchenOrder")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	order, err := h.floor.Order(id)
	if err != nil {
		h.respondFloorError(w, log, "cannot find kitchen order", err)
		return
	}

	apt.RespondSuccess(w, order)
}

func (h *Handler) AdvanceKitchenOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdvanceKitchenOrder")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req AdvanceStatusRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	order, err := h.floor.AdvanceStatus(r.Context(), id, req.Status)
	if err != nil {
		h.respondFloorError(w, log, "cannot advance kitchen order", err)
		return
	}

	apt.RespondSuccess(w, order.View())
}

func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListBills")
	defer finish()

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"bills": h.floor.LedgerBills(),
	}, nil)
}

func (h *Handler) GetBill(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetBill")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	bill, err := h.floor.Bill(id)
	if err != nil {
		h.respondFloorError(w, log, "cannot find bill", err)
		return
	}

	apt.RespondSuccess(w, bill)
}

func (h *Handler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteBill")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if _, err := h.floor.DeleteBill(r.Context(), r.Header.Get(AdminCredentialHeader), id); err != nil {
		h.respondFloorError(w, log, "cannot delete bill", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PurgeBills(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PurgeBills")
	defer finish()
	log := h.log(r)

	confirmed := r.URL.Query().Get("confirm") == "true"
	removed, err := h.floor.PurgeAllBills(r.Context(), r.Header.Get(AdminCredentialHeader), confirmed)
	if err != nil {
		h.respondFloorError(w, log, "cannot purge bills", err)
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"removed": removed,
	}, nil)
}

func (h *Handler) LedgerSummary(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.LedgerSummary")
	defer finish()

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"bill_count":    h.floor.BillCount(),
		"total_revenue": h.floor.TotalRevenue(),
		"currency":      CurrencySymbol,
	}, nil)
}

func (h *Handler) GetDailyReport(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetDailyReport")
	defer finish()
	log := h.log(r)

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
		if err != nil {
			log.Debug("invalid report date", "date", raw)
			apt.RespondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	report, err := h.floor.DailyReport(date)
	if err != nil {
		h.respondFloorError(w, log, "cannot build daily report", err)
		return
	}

	apt.RespondSuccess(w, report)
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

// tableParam resolves the {table} path value. "current" stands for the
// selected table and resolves to 0 when nothing is selected.
func (h *Handler) tableParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (int, bool) {
	raw := chi.URLParam(r, "table")
	if raw == currentTableParam {
		table, _ := h.floor.CurrentTable()
		return table, true
	}

	table, err := strconv.Atoi(raw)
	if err != nil {
		log.Debug("invalid table parameter", "table", raw)
		apt.RespondError(w, http.StatusBadRequest, "Invalid table parameter")
		return 0, false
	}
	return table, true
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log apt.Logger, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Debug("invalid request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (h *Handler) respondFloorError(w http.ResponseWriter, log apt.Logger, msg string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error(msg, "error", err)
	} else {
		log.Debug(msg, "error", err)
	}
	apt.RespondError(w, status, capitalize(err.Error()))
}

// StatusFor maps floor errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrBillNotFound),
		errors.Is(err, ErrNoBillsForDate):
		return http.StatusNotFound
	case errors.Is(err, ErrAuthorizationDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidStatusTransition),
		errors.Is(err, ErrNoPendingSettlement),
		errors.Is(err, ErrStaleSettlement),
		errors.Is(err, ErrNoReadyOrders),
		errors.Is(err, ErrNoOrdersForTable):
		return http.StatusConflict
	case errors.Is(err, ErrNoTableSelected),
		errors.Is(err, ErrInvalidTable),
		errors.Is(err, ErrMenuItemNotFound),
		errors.Is(err, ErrEmptyDraft),
		errors.Is(err, ErrConfirmationRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return fmt.Sprintf("%c%s", s[0]-'a'+'A', s[1:])
	}
	return s
}
