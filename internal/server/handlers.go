package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ncolosso/splitter/internal/gateway"
	"github.com/ncolosso/splitter/internal/models"
	"github.com/ncolosso/splitter/internal/storage"
)

// Request bodies reuse the gateway field structs so the wire contract lives
// in one place for both sides.

type createBillRequest struct {
	Title string `json:"title"`
	Date  int64  `json:"date"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps storage failures to status codes: unknown ids are
// 404, anything else is a 500.
func writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	slog.Error("storage error", "op", op, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func validateItemFields(fields gateway.ItemFields) error {
	if strings.TrimSpace(fields.Description) == "" {
		return errors.New("description required")
	}
	if fields.Quantity < 1 {
		return errors.New("quantity must be at least 1")
	}
	return nil
}

func validateFeeFields(fields gateway.FeeFields) error {
	if strings.TrimSpace(fields.Description) == "" {
		return errors.New("description required")
	}
	return nil
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.store.ListBills(r.Context())
	if err != nil {
		writeStoreError(w, r, "list bills", err)
		return
	}
	if bills == nil {
		bills = []models.Bill{}
	}
	writeJSON(w, http.StatusOK, bills)
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req createBillRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}

	bill := &models.Bill{Title: req.Title, Date: req.Date}
	if err := s.store.CreateBill(r.Context(), bill); err != nil {
		writeStoreError(w, r, "create bill", err)
		return
	}
	slog.Info("bill created", "bill_id", bill.ID, "title", bill.Title)
	writeJSON(w, http.StatusCreated, bill)
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	bill, err := s.store.GetBill(r.Context(), r.PathValue("billID"))
	if err != nil {
		writeStoreError(w, r, "get bill", err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListItems(r.Context(), r.PathValue("billID"))
	if err != nil {
		writeStoreError(w, r, "list items", err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	billID := r.PathValue("billID")

	var fields gateway.ItemFields
	if !decodeBody(w, r, &fields) {
		return
	}
	if err := validateItemFields(fields); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item := &models.Item{
		Description: fields.Description,
		UnitPrice:   fields.UnitPrice,
		Quantity:    fields.Quantity,
	}
	if err := s.store.CreateItem(r.Context(), billID, item); err != nil {
		writeStoreError(w, r, "create item", err)
		return
	}
	slog.Info("item created", "bill_id", billID, "item_id", item.ID)
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	billID := r.PathValue("billID")
	itemID := r.PathValue("itemID")

	var fields gateway.ItemFields
	if !decodeBody(w, r, &fields) {
		return
	}
	if err := validateItemFields(fields); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item := &models.Item{
		ID:          itemID,
		Description: fields.Description,
		UnitPrice:   fields.UnitPrice,
		Quantity:    fields.Quantity,
	}
	if err := s.store.UpdateItem(r.Context(), billID, item); err != nil {
		writeStoreError(w, r, "update item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	billID := r.PathValue("billID")
	itemID := r.PathValue("itemID")

	if err := s.store.DeleteItem(r.Context(), billID, itemID); err != nil {
		writeStoreError(w, r, "delete item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListFees(w http.ResponseWriter, r *http.Request) {
	fees, err := s.store.ListFees(r.Context(), r.PathValue("billID"))
	if err != nil {
		writeStoreError(w, r, "list fees", err)
		return
	}
	if fees == nil {
		fees = []models.Fee{}
	}
	writeJSON(w, http.StatusOK, fees)
}

func (s *Server) handleCreateFee(w http.ResponseWriter, r *http.Request) {
	billID := r.PathValue("billID")

	var fields gateway.FeeFields
	if !decodeBody(w, r, &fields) {
		return
	}
	if err := validateFeeFields(fields); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fee := &models.Fee{Description: fields.Description, Price: fields.Price}
	if err := s.store.CreateFee(r.Context(), billID, fee); err != nil {
		writeStoreError(w, r, "create fee", err)
		return
	}
	slog.Info("fee created", "bill_id", billID, "fee_id", fee.ID)
	writeJSON(w, http.StatusCreated, fee)
}

func (s *Server) handleUpdateFee(w http.ResponseWriter, r *http.Request) {
	billID := r.PathValue("billID")
	feeID := r.PathValue("feeID")

	var fields gateway.FeeFields
	if !decodeBody(w, r, &fields) {
		return
	}
	if err := validateFeeFields(fields); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fee := &models.Fee{ID: feeID, Description: fields.Description, Price: fields.Price}
	if err := s.store.UpdateFee(r.Context(), billID, fee); err != nil {
		writeStoreError(w, r, "update fee", err)
		return
	}
	writeJSON(w, http.StatusOK, fee)
}

func (s *Server) handleDeleteFee(w http.ResponseWriter, r *http.Request) {
	billID := r.PathValue("billID")
	feeID := r.PathValue("feeID")

	if err := s.store.DeleteFee(r.Context(), billID, feeID); err != nil {
		writeStoreError(w, r, "delete fee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
