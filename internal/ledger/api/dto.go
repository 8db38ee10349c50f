package api

import "time"

// SubmitPostingReq is one settled financial event from an upstream
// collaborator (payment settlement, disbursement approval, internal
// reclassification job).
type SubmitPostingReq struct {
	RefType     string    `json:"ref_type" binding:"required"`
	RefID       string    `json:"ref_id" binding:"required"`
	ProductType string    `json:"product_type" binding:"required"`
	Category    string    `json:"category" binding:"required"`
	Amount      int64     `json:"amount" binding:"required,gt=0"`
	FeeAmount   int64     `json:"fee_amount" binding:"gte=0"`
	Entity      string    `json:"entity"`
	Memo        string    `json:"memo"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// RegisterAccountReq creates one chart-of-accounts node.
type RegisterAccountReq struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Type       string `json:"type" binding:"required,oneof=asset liability equity income expense"`
	ParentCode string `json:"parent_code"`
}

// ReclassifyReq is a bulk historical category remediation: each key is
// a legacy category value, each value its canonical replacement.
type ReclassifyReq struct {
	Mapping map[string]string `json:"mapping" binding:"required"`
}
