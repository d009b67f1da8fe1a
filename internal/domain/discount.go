package domain

import "time"

// DiscountType тип скидки
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// DiscountSourceKind откуда взялась скидка
type DiscountSourceKind string

const (
	DiscountNone     DiscountSourceKind = "none"
	DiscountCoupon   DiscountSourceKind = "coupon"
	DiscountCampaign DiscountSourceKind = "campaign"
)

// DiscountSource источник скидки бронирования: нет, купон или кампания.
// У бронирования не может быть одновременно купона и кампании.
type DiscountSource struct {
	Kind DiscountSourceKind
	ID   int64
}

func NoDiscount() DiscountSource {
	return DiscountSource{Kind: DiscountNone}
}

func CouponSource(id int64) DiscountSource {
	return DiscountSource{Kind: DiscountCoupon, ID: id}
}

func CampaignSource(id int64) DiscountSource {
	return DiscountSource{Kind: DiscountCampaign, ID: id}
}

// DiscountSourceFromIDs собирает источник из колонок coupon_id / campaign_id
func DiscountSourceFromIDs(couponID, campaignID *int64) DiscountSource {
	switch {
	case couponID != nil:
		return CouponSource(*couponID)
	case campaignID != nil:
		return CampaignSource(*campaignID)
	default:
		return NoDiscount()
	}
}

// CouponID ID купона или nil
func (d DiscountSource) CouponID() *int64 {
	if d.Kind != DiscountCoupon {
		return nil
	}
	id := d.ID
	return &id
}

// CampaignID ID кампании или nil
func (d DiscountSource) CampaignID() *int64 {
	if d.Kind != DiscountCampaign {
		return nil
	}
	id := d.ID
	return &id
}

// Coupon купон со скидкой по коду
type Coupon struct {
	ID            int64
	Code          string
	Name          string
	DiscountType  DiscountType
	DiscountValue int64
	StartDate     time.Time
	EndDate       time.Time
	IsActive      bool
	MaxUsageTotal *int64 // nil = без лимита
	UsageCount    int64
	MinPurchase   *int64  // nil = без минимальной суммы
	StoreIDs      []int64 // пусто = все салоны
	MenuIDs       []int64 // пусто = все меню
}

// Campaign автоматическая скидка без кода.
// В отличие от купона, салоны и меню должны быть перечислены явно.
type Campaign struct {
	ID            int64
	Name          string
	DiscountType  DiscountType
	DiscountValue int64
	StartDate     time.Time
	EndDate       time.Time
	IsActive      bool
	StoreIDs      []int64
	MenuIDs       []int64
	CreatedAt     time.Time
}
