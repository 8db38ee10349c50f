package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amanahq/amanah/backend/internal/ledger/domain"
	"github.com/amanahq/amanah/backend/internal/ledger/service"
)

// LedgerHandler exposes the ledger to the hosting application: the
// posting submission path, the chart-of-accounts operations, the
// report queries and the operational tooling.
type LedgerHandler struct {
	ledger   *service.Ledger
	registry *service.Registry
	reporter *service.Reporter
	auditor  *service.Auditor
	reclass  *service.Reclassifier
}

func NewLedgerHandler(
	ledger *service.Ledger,
	registry *service.Registry,
	reporter *service.Reporter,
	auditor *service.Auditor,
	reclass *service.Reclassifier,
) *LedgerHandler {
	return &LedgerHandler{
		ledger:   ledger,
		registry: registry,
		reporter: reporter,
		auditor:  auditor,
		reclass:  reclass,
	}
}

// RegisterRoutes mounts the ledger routes on a version group.
func (h *LedgerHandler) RegisterRoutes(r *gin.RouterGroup) {
	ledgerGroup := r.Group("/ledger")
	{
		ledgerGroup.POST("/postings", h.SubmitPosting)

		ledgerGroup.POST("/accounts", h.RegisterAccount)
		ledgerGroup.POST("/accounts/:code/deactivate", h.DeactivateAccount)
		ledgerGroup.POST("/accounts/:code/activate", h.ActivateAccount)
		ledgerGroup.GET("/accounts/:code/balance", h.AccountBalance)

		ledgerGroup.GET("/reports/cash-flow", h.CashFlow)
		ledgerGroup.GET("/reports/balance-sheet", h.BalanceSheet)
		ledgerGroup.GET("/reports/liability", h.LiabilityBalance)
		ledgerGroup.GET("/reports/entity-breakdown", h.EntityBreakdown)

		ledgerGroup.GET("/zakat/maal-due", h.ZakatMaalDue)

		ledgerGroup.POST("/reclassify", h.Reclassify)
		ledgerGroup.GET("/audit", h.Audit)
	}
}

// SubmitPosting classifies and posts one event.
// POST /api/v1/ledger/postings
func (h *LedgerHandler) SubmitPosting(c *gin.Context) {
	var req SubmitPostingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	receipt, err := h.ledger.Submit(c.Request.Context(), service.PostingRequest{
		RefType:     req.RefType,
		RefID:       req.RefID,
		ProductType: req.ProductType,
		Category:    req.Category,
		Amount:      req.Amount,
		FeeAmount:   req.FeeAmount,
		Entity:      req.Entity,
		Memo:        req.Memo,
		OccurredAt:  req.OccurredAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entry_id":        receipt.EntryID,
		"ref_type":        receipt.RefType,
		"ref_id":          receipt.RefID,
		"posted_at":       receipt.PostedAt,
		"already_applied": receipt.AlreadyApplied,
	})
}

// RegisterAccount adds one account to the chart.
// POST /api/v1/ledger/accounts
func (h *LedgerHandler) RegisterAccount(c *gin.Context) {
	var req RegisterAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	account, err := h.registry.Register(c.Request.Context(), req.Code, req.Name, domain.AccountType(req.Type), req.ParentCode)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// DeactivateAccount blocks new classification to an account without
// touching its history.
// POST /api/v1/ledger/accounts/:code/deactivate
func (h *LedgerHandler) DeactivateAccount(c *gin.Context) {
	if err := h.registry.Deactivate(c.Request.Context(), c.Param("code")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": c.Param("code"), "is_active": false})
}

// ActivateAccount re-enables an account.
// POST /api/v1/ledger/accounts/:code/activate
func (h *LedgerHandler) ActivateAccount(c *gin.Context) {
	if err := h.registry.Activate(c.Request.Context(), c.Param("code")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": c.Param("code"), "is_active": true})
}

// AccountBalance returns one account's balance over an optional window.
// GET /api/v1/ledger/accounts/:code/balance?start=&end=&entity=
func (h *LedgerHandler) AccountBalance(c *gin.Context) {
	start, end, ok := parseWindow(c)
	if !ok {
		return
	}
	balance, err := h.reporter.Balance(c.Request.Context(), service.BalanceQuery{
		Code:   c.Param("code"),
		Start:  start,
		End:    end,
		Entity: c.Query("entity"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": c.Param("code"), "balance": balance})
}

// CashFlow reports inflow/outflow over a window.
// GET /api/v1/ledger/reports/cash-flow?start=&end=&entity=
func (h *LedgerHandler) CashFlow(c *gin.Context) {
	start, end, ok := parseWindow(c)
	if !ok {
		return
	}
	report, err := h.reporter.CashFlow(c.Request.Context(), start, end, c.Query("entity"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// BalanceSheet reports the position as of end.
// GET /api/v1/ledger/reports/balance-sheet?end=
func (h *LedgerHandler) BalanceSheet(c *gin.Context) {
	_, end, ok := parseWindow(c)
	if !ok {
		return
	}
	if end.IsZero() {
		end = time.Now()
	}
	report, err := h.reporter.BalanceSheet(c.Request.Context(), end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// LiabilityBalance reports restricted funds still held.
// GET /api/v1/ledger/reports/liability?end=
func (h *LedgerHandler) LiabilityBalance(c *gin.Context) {
	_, end, ok := parseWindow(c)
	if !ok {
		return
	}
	if end.IsZero() {
		end = time.Now()
	}
	report, err := h.reporter.LiabilityBalance(c.Request.Context(), end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// EntityBreakdown groups cash movement by entity tag.
// GET /api/v1/ledger/reports/entity-breakdown?start=&end=
func (h *LedgerHandler) EntityBreakdown(c *gin.Context) {
	start, end, ok := parseWindow(c)
	if !ok {
		return
	}
	report, err := h.reporter.EntityBreakdown(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ZakatMaalDue computes the zakat owed on a wealth amount using the
// configured commodity reference price.
// GET /api/v1/ledger/zakat/maal-due?wealth=
func (h *LedgerHandler) ZakatMaalDue(c *gin.Context) {
	wealth, err := strconv.ParseInt(c.Query("wealth"), 10, 64)
	if err != nil || wealth < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wealth must be a non-negative integer"})
		return
	}
	due := h.ledger.Classifier().Valuation().ZakatMaalDue(wealth)
	c.JSON(http.StatusOK, gin.H{"wealth": wealth, "due": due})
}

// Reclassify runs the bulk historical category remediation.
// POST /api/v1/ledger/reclassify
func (h *LedgerHandler) Reclassify(c *gin.Context) {
	var req ReclassifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	changed, err := h.reclass.ReclassifyHistorical(c.Request.Context(), req.Mapping)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// Audit runs the read-only consistency scan.
// GET /api/v1/ledger/audit
func (h *LedgerHandler) Audit(c *gin.Context) {
	report, err := h.auditor.Run(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// parseWindow reads optional RFC 3339 start/end query parameters. On a
// malformed value it writes the 400 itself and returns ok=false.
func parseWindow(c *gin.Context) (start, end time.Time, ok bool) {
	var err error
	if raw := c.Query("start"); raw != "" {
		if start, err = time.Parse(time.RFC3339, raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start: " + err.Error()})
			return start, end, false
		}
	}
	if raw := c.Query("end"); raw != "" {
		if end, err = time.Parse(time.RFC3339, raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end: " + err.Error()})
			return start, end, false
		}
	}
	return start, end, true
}

// writeError maps the domain error taxonomy to HTTP statuses.
func writeError(c *gin.Context, err error) {
	var verr domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, domain.ErrDuplicateAccountCode):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnknownAccount),
		errors.Is(err, domain.ErrUnknownCategory):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInactiveAccount),
		errors.Is(err, domain.ErrUnbalancedEntry):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
