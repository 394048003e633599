package checkout

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/tgfc/som/internal/common"
	"github.com/tgfc/som/internal/coupon"
)

// Handler exposes the order workflow over HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// Routes mounts the handler on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Route("/{orderId}", func(r chi.Router) {
			r.Get("/", h.GetOrder)
			r.Post("/lines", h.AddLine)
			r.Route("/lines/{lineId}", func(r chi.Router) {
				r.Put("/", h.UpdateLine)
				r.Delete("/", h.RemoveLine)
				r.Post("/installation", h.AttachInstallation)
				r.Post("/delivery", h.AttachDelivery)
			})
			r.Post("/overrides", h.AuthorizeOverride)
			r.Post("/calculate", h.Calculate)
			r.Post("/submit", h.Submit)
			r.Post("/coupon", h.ApplyCoupon)
			r.Delete("/coupon", h.RemoveCoupon)
			r.Get("/bonus/points", h.BonusPoints)
			r.Post("/bonus/redeem", h.RedeemBonus)
			r.Post("/bonus/cancel", h.CancelBonus)
		})
	})
	r.Get("/worktypes", h.ListWorkTypes)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(v); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
			return false
		}
	}
	return true
}

// CreateOrder opens a draft order. The Idempotency-Key header arms the
// duplicate submission guard.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var payload CreateOrderInput
	if !h.decode(w, r, &payload) {
		return
	}
	idemKey := r.Header.Get("Idempotency-Key")
	o, err := h.Svc.CreateOrder(r.Context(), idemKey, payload)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": orderView(o)})
}

// GetOrder returns the full order including lines and the last
// calculation snapshot.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Svc.GetOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": orderView(o)})
}

// AddLine appends a product row to the order.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	var payload AddLineInput
	if !h.decode(w, r, &payload) {
		return
	}
	o, line, err := h.Svc.AddLine(r.Context(), chi.URLParam(r, "orderId"), payload)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{
			"order": orderView(o),
			"line":  lineView(line),
		},
	})
}

// UpdateLine reconfigures a row.
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var payload UpdateLineInput
	if !h.decode(w, r, &payload) {
		return
	}
	o, corrected, err := h.Svc.UpdateLine(r.Context(), chi.URLParam(r, "orderId"), chi.URLParam(r, "lineId"), payload)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"order":     orderView(o),
			"corrected": corrected,
		},
	})
}

// RemoveLine deletes a row.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	o, err := h.Svc.RemoveLine(r.Context(), chi.URLParam(r, "orderId"), chi.URLParam(r, "lineId"))
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": orderView(o)})
}

// AttachInstallation configures installation services on a row.
func (h *Handler) AttachInstallation(w http.ResponseWriter, r *http.Request) {
	var payload InstallationInput
	if !h.decode(w, r, &payload) {
		return
	}
	o, err := h.Svc.AttachInstallation(r.Context(), chi.URLParam(r, "orderId"), chi.URLParam(r, "lineId"), payload)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": orderView(o)})
}

// AttachDelivery configures transport on a row.
func (h *Handler) AttachDelivery(w http.ResponseWriter, r *http.Request) {
	var payload DeliveryInput
	if !h.decode(w, r, &payload) {
		return
	}
	o, corrected, err := h.Svc.AttachDelivery(r.Context(), chi.URLParam(r, "orderId"), chi.URLParam(r, "lineId"), payload)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"order":     orderView(o),
			"corrected": corrected,
		},
	})
}

// AuthorizeOverride records an approved work type charge override.
func (h *Handler) AuthorizeOverride(w http.ResponseWriter, r *http.Request) {
	var payload OverrideInput
	if !h.decode(w, r, &payload) {
		return
	}
	o, err := h.Svc.AuthorizeOverride(r.Context(), chi.URLParam(r, "orderId"), payload)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": orderView(o)})
}

// Calculate runs the pricing pipeline and returns the snapshot.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	o, err := h.Svc.Calculate(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": orderView(o)})
}

// Submit promotes a calculated draft to a quotation.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	o, err := h.Svc.Submit(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": orderView(o)})
}

type applyCouponInput struct {
	CouponID string `json:"couponId" validate:"required"`
}

// ApplyCoupon applies a coupon to the order.
func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var payload applyCouponInput
	if !h.decode(w, r, &payload) {
		return
	}
	o, result, err := h.Svc.ApplyCoupon(r.Context(), chi.URLParam(r, "orderId"), payload.CouponID)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"order":  orderView(o),
			"coupon": couponView(result),
		},
	})
}

// RemoveCoupon clears the applied coupon.
func (h *Handler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	o, err := h.Svc.RemoveCoupon(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": orderView(o)})
}

// BonusPoints reports the available point balance for the order's member.
func (h *Handler) BonusPoints(w http.ResponseWriter, r *http.Request) {
	memberID, points, err := h.Svc.AvailablePoints(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"memberId": memberID,
			"points":   points,
		},
	})
}

// RedeemBonus converts member points into a row discount.
func (h *Handler) RedeemBonus(w http.ResponseWriter, r *http.Request) {
	var payload BonusRedeemInput
	if !h.decode(w, r, &payload) {
		return
	}
	o, redemption, err := h.Svc.RedeemBonus(r.Context(), chi.URLParam(r, "orderId"), payload)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"order": orderView(o),
			"redemption": map[string]any{
				"sku":             redemption.SKU,
				"points":          redemption.Points,
				"requestedPoints": redemption.RequestedPoints,
				"adjusted":        redemption.Adjusted,
				"discount":        redemption.Discount.Int64(),
				"remainingPoints": redemption.RemainingPoints,
			},
		},
	})
}

// CancelBonus reverses a redemption on one row.
func (h *Handler) CancelBonus(w http.ResponseWriter, r *http.Request) {
	var payload BonusCancelInput
	if !h.decode(w, r, &payload) {
		return
	}
	o, points, err := h.Svc.CancelBonus(r.Context(), chi.URLParam(r, "orderId"), payload)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"order":          orderView(o),
			"pointsReturned": points,
		},
	})
}

// ListWorkTypes lists the installation and delivery work types.
func (h *Handler) ListWorkTypes(w http.ResponseWriter, r *http.Request) {
	types := h.Svc.WorkTypes.All()
	response := make([]map[string]any, 0, len(types))
	for _, wt := range types {
		response = append(response, map[string]any{
			"id":           wt.ID,
			"name":         wt.Name,
			"category":     string(wt.Category),
			"minimumWage":  wt.MinimumWage.Int64(),
			"basicRate":    wt.BasicRate.String(),
			"advancedRate": wt.AdvancedRate.String(),
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": response})
}

func couponView(result coupon.Result) map[string]any {
	return map[string]any{
		"couponId":         result.Coupon.ID,
		"name":             result.Coupon.Name,
		"kind":             string(result.Coupon.Kind),
		"discount":         result.Discount.Int64(),
		"totalAllocated":   result.TotalAllocated().Int64(),
		"freeInstallation": result.FreeInstallation,
	}
}
