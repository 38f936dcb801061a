// Package handlers provides HTTP request handlers for the Tadawi API endpoints.
// This file implements the handlers with dependency injection.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MahmoudShalabyy/tadawi-app-sub001/config"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/entities"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/interfaces"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/logging"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/resources"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/storage"
)

// Allowed ?include= values per resource.
var (
	orderIncludes = []interfaces.Include{
		interfaces.IncludeUser,
		interfaces.IncludePharmacy,
		interfaces.IncludeMedicines,
		interfaces.IncludePrescriptions,
		interfaces.IncludePayments,
	}
	donationIncludes = []interfaces.Include{
		interfaces.IncludeUser,
		interfaces.IncludeMedicines,
	}
	medicineIncludes = []interfaces.Include{
		interfaces.IncludeActiveIngredient,
		interfaces.IncludeTherapeuticClasses,
		interfaces.IncludeStockBatches,
	}
	prescriptionIncludes = []interfaces.Include{
		interfaces.IncludeOrder,
	}
)

const medicinesPageSize = 10

// HTTPHandlerImpl serves the API endpoints with injected dependencies.
type HTTPHandlerImpl struct {
	store     interfaces.Store
	validator interfaces.Validator
	queue     interfaces.NotificationQueue
	cart      config.CartConfig
	startedAt time.Time
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(store interfaces.Store, validator interfaces.Validator, queue interfaces.NotificationQueue, cart config.CartConfig) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		store:     store,
		validator: validator,
		queue:     queue,
		cart:      cart,
		startedAt: time.Now(),
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// respondStoreError maps a storage error to the right status code.
func (h *HTTPHandlerImpl) respondStoreError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, storage.ErrNotFound) {
		h.RespondWithError(w, http.StatusNotFound, what+" not found")
		return
	}
	logging.Error("Storage query failed", "resource", what, "error", err)
	h.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
}

// parseRequest extracts and validates the {id} URL parameter and the
// ?include= query against the given allowed set.
func (h *HTTPHandlerImpl) parseRequest(r *http.Request, allowed []interfaces.Include) (int64, []interfaces.Include, error) {
	id, err := h.validator.ValidateID(chi.URLParam(r, "id"))
	if err != nil {
		return 0, nil, err
	}

	includes, err := h.validator.ValidateIncludes(r.URL.Query().Get("include"), allowed)
	if err != nil {
		return 0, nil, err
	}

	return id, includes, nil
}

// GetOrder returns a single order with its requested relations.
func (h *HTTPHandlerImpl) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, includes, err := h.parseRequest(r, orderIncludes)
	if err != nil {
		logging.Warn("Unusual user input", "path", r.URL.Path, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.store.GetOrder(r.Context(), id, includes...)
	if err != nil {
		h.respondStoreError(w, err, "Order")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, resources.NewOrder(order))
}

// ListOrders returns every order with the requested relations.
func (h *HTTPHandlerImpl) ListOrders(w http.ResponseWriter, r *http.Request) {
	includes, err := h.validator.ValidateIncludes(r.URL.Query().Get("include"), orderIncludes)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := h.store.ListOrders(r.Context(), includes...)
	if err != nil {
		h.respondStoreError(w, err, "Orders")
		return
	}

	results := make([]resources.OrderResource, 0, len(orders))
	for i := range orders {
		results = append(results, resources.NewOrder(&orders[i]))
	}

	h.RespondWithJSON(w, http.StatusOK, results)
}

// createOrderRequest is the JSON body for order placement.
type createOrderRequest struct {
	UserID         int64                  `json:"user_id"`
	PharmacyID     int64                  `json:"pharmacy_id"`
	OrderNumber    *string                `json:"order_number"`
	PatientName    *string                `json:"patient_name"`
	PaymentMethod  string                 `json:"payment_method"`
	BillingAddress string                 `json:"billing_address"`
	Medicines      []interfaces.OrderLine `json:"medicines"`
}

func (h *HTTPHandlerImpl) validateOrderRequest(req *createOrderRequest) error {
	if req.UserID < 1 {
		return errors.New("user_id is required")
	}
	if req.PharmacyID < 1 {
		return errors.New("pharmacy_id is required")
	}
	if len(req.Medicines) == 0 {
		return errors.New("at least one medicine line is required")
	}
	for _, line := range req.Medicines {
		if line.MedicineID < 1 {
			return errors.New("medicine_id is required on every line")
		}
		if line.Quantity < 1 {
			return errors.New("quantity must be at least 1")
		}
		if line.Quantity > int64(h.cart.MaxQuantityPerMedicine) {
			return errors.New("quantity exceeds the limit of " +
				strconv.Itoa(h.cart.MaxQuantityPerMedicine) + " per medicine")
		}
	}
	return nil
}

// CreateOrder places a new order and queues its confirmation email. The
// enqueue never blocks the response.
func (h *HTTPHandlerImpl) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	if err := h.validateOrderRequest(&req); err != nil {
		logging.Warn("Rejected order payload", "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	order := &entities.Order{
		UserID:         req.UserID,
		PharmacyID:     req.PharmacyID,
		OrderNumber:    req.OrderNumber,
		PatientName:    req.PatientName,
		Status:         "placed",
		PaymentMethod:  req.PaymentMethod,
		BillingAddress: req.BillingAddress,
	}

	created, err := h.store.CreateOrder(r.Context(), order, req.Medicines)
	if err != nil {
		h.respondStoreError(w, err, "Order")
		return
	}

	h.queue.EnqueueOrderConfirmation(created.ID)
	logging.Info("Order placed", "order_id", created.ID, "user_id", created.UserID)

	h.RespondWithJSON(w, http.StatusCreated, resources.NewOrder(created))
}

// GetDonation returns a single donation with its requested relations.
func (h *HTTPHandlerImpl) GetDonation(w http.ResponseWriter, r *http.Request) {
	id, includes, err := h.parseRequest(r, donationIncludes)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	donation, err := h.store.GetDonation(r.Context(), id, includes...)
	if err != nil {
		h.respondStoreError(w, err, "Donation")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, resources.NewDonation(donation))
}

// ListDonations returns every donation with the requested relations.
func (h *HTTPHandlerImpl) ListDonations(w http.ResponseWriter, r *http.Request) {
	includes, err := h.validator.ValidateIncludes(r.URL.Query().Get("include"), donationIncludes)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	donations, err := h.store.ListDonations(r.Context(), includes...)
	if err != nil {
		h.respondStoreError(w, err, "Donations")
		return
	}

	results := make([]resources.DonationResource, 0, len(donations))
	for i := range donations {
		results = append(results, resources.NewDonation(&donations[i]))
	}

	h.RespondWithJSON(w, http.StatusOK, results)
}

// GetMedicine returns a single medicine with its requested relations.
func (h *HTTPHandlerImpl) GetMedicine(w http.ResponseWriter, r *http.Request) {
	id, includes, err := h.parseRequest(r, medicineIncludes)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	medicine, err := h.store.GetMedicine(r.Context(), id, includes...)
	if err != nil {
		h.respondStoreError(w, err, "Medicine")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, resources.NewMedicine(medicine))
}

// ListMedicines returns medicines with the requested relations. An optional
// ?page= parameter switches to a paged envelope.
func (h *HTTPHandlerImpl) ListMedicines(w http.ResponseWriter, r *http.Request) {
	includes, err := h.validator.ValidateIncludes(r.URL.Query().Get("include"), medicineIncludes)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	medicines, err := h.store.ListMedicines(r.Context(), includes...)
	if err != nil {
		h.respondStoreError(w, err, "Medicines")
		return
	}

	results := make([]resources.MedicineResource, 0, len(medicines))
	for i := range medicines {
		results = append(results, resources.NewMedicine(&medicines[i]))
	}

	pageParam := r.URL.Query().Get("page")
	if pageParam == "" {
		h.RespondWithJSON(w, http.StatusOK, results)
		return
	}

	page, err := strconv.Atoi(pageParam)
	if err != nil || page < 1 {
		logging.Warn("Unusual user input", "page", pageParam)
		h.RespondWithError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	start := (page - 1) * medicinesPageSize
	end := start + medicinesPageSize

	if start >= len(results) && page != 1 {
		h.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}
	if end > len(results) {
		end = len(results)
	}
	if start > len(results) {
		start = len(results)
	}

	totalItems := len(results)
	maxPage := (totalItems + medicinesPageSize - 1) / medicinesPageSize

	response := map[string]interface{}{
		"data":       results[start:end],
		"page":       page,
		"pageSize":   medicinesPageSize,
		"totalItems": totalItems,
		"maxPage":    maxPage,
	}

	h.RespondWithJSON(w, http.StatusOK, response)
}

// GetPrescription returns a single prescription, optionally with its parent
// order.
func (h *HTTPHandlerImpl) GetPrescription(w http.ResponseWriter, r *http.Request) {
	id, includes, err := h.parseRequest(r, prescriptionIncludes)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	prescription, err := h.store.GetPrescription(r.Context(), id, includes...)
	if err != nil {
		h.respondStoreError(w, err, "Prescription")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, resources.NewPrescription(prescription))
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startedAt)

	response := map[string]interface{}{
		"status":         "healthy",
		"uptime_seconds": uptime.Seconds(),
		"system": map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc_mb": int(m.Alloc / 1024 / 1024),
				"sys_mb":   int(m.Sys / 1024 / 1024),
				"num_gc":   m.NumGC,
			},
		},
	}

	h.RespondWithJSON(w, http.StatusOK, response)
}
