package api

import (
	"net/http"

	"github.com/scholarfund/scholarfund-api/internal/api/shared"
	"github.com/scholarfund/scholarfund-api/internal/service"
)

// LedgerHandler handles funding and withdrawal requests and the ledger's
// read surface.
type LedgerHandler struct {
	ledger service.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// Fund handles POST /scholarships/{id}/fund requests. The authenticated
// caller is the investor.
func (h *LedgerHandler) Fund(w http.ResponseWriter, r *http.Request) {
	callerID, ok := getCallerID(w, r)
	if !ok {
		return
	}
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req FundRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.ledger.Fund(r.Context(), id, req.Amount, callerID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Withdraw handles POST /scholarships/{id}/withdraw requests. Only the
// current owner of record succeeds.
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	callerID, ok := getCallerID(w, r)
	if !ok {
		return
	}
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req WithdrawRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.ledger.Withdraw(r.Context(), id, req.Amount, callerID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTotalFunding handles GET /scholarships/{id}/funding requests.
func (h *LedgerHandler) GetTotalFunding(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	total, err := h.ledger.GetTotalFunding(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, AmountResponse{Amount: total})
}

// GetInvestors handles GET /scholarships/{id}/investors requests.
func (h *LedgerHandler) GetInvestors(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	investors, err := h.ledger.GetInvestors(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, InvestorsResponse{Investors: investors})
}

// GetInvestorCount handles GET /scholarships/{id}/investors/count requests.
func (h *LedgerHandler) GetInvestorCount(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	count, err := h.ledger.GetInvestorCount(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{Count: count})
}

// GetContribution handles GET /scholarships/{id}/contributions/{investor}
// requests. An investor who never contributed reads as zero.
func (h *LedgerHandler) GetContribution(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	investor, err := getPathUUID(r, "investor")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := h.ledger.GetInvestorContribution(r.Context(), id, investor)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, AmountResponse{Amount: amount})
}

// CheckBalance handles GET /scholarships/{id}/balance-check requests.
func (h *LedgerHandler) CheckBalance(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := getQueryUint64(r, "amount")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sufficient, err := h.ledger.HasEnoughBalance(r.Context(), id, amount)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, BalanceCheckResponse{Sufficient: sufficient})
}

// GetWithdrawalHistory handles GET /scholarships/{id}/withdrawals requests.
func (h *LedgerHandler) GetWithdrawalHistory(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	views, err := h.ledger.GetWithdrawalHistory(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	entries := make([]WithdrawalEntry, len(views))
	for i, view := range views {
		entries[i] = WithdrawalEntry{NetAmount: view.NetAmount, Timestamp: view.Timestamp}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, WithdrawalHistoryResponse{Withdrawals: entries})
}

// GetDetailedWithdrawalHistory handles GET
// /scholarships/{id}/withdrawals/detailed requests.
func (h *LedgerHandler) GetDetailedWithdrawalHistory(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.ledger.GetDetailedWithdrawalHistory(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	entries := make([]DetailedWithdrawalEntry, len(records))
	for i, rec := range records {
		entries[i] = DetailedWithdrawalEntry{
			Index:     rec.Index,
			NetAmount: rec.NetAmount,
			FeeAmount: rec.FeeAmount,
			Timestamp: rec.Timestamp,
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DetailedWithdrawalHistoryResponse{Withdrawals: entries})
}

// GetWithdrawalFee handles GET /scholarships/{id}/withdrawals/{index}/fee
// requests. An out-of-range index reads as zero.
func (h *LedgerHandler) GetWithdrawalFee(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	index, err := getPathIndex(r, "index")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	fee, err := h.ledger.GetWithdrawalFee(r.Context(), id, index)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FeeResponse{Fee: fee})
}
