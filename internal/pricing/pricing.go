package pricing

import (
	"math"
	"sort"
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
)

// Quote итоговый расчет цены бронирования
type Quote struct {
	OriginalPrice  int64
	DiscountAmount int64
	FinalPrice     int64
	Source         domain.DiscountSource
}

// OriginalPrice цена с налогом. Дробная часть отбрасывается, а не округляется.
//
// Пример: 6000 * (1 + 0.1) = 6600
func OriginalPrice(price int64, taxRate float64) int64 {
	return int64(math.Floor(float64(price) * (1 + taxRate)))
}

// DiscountAmount размер скидки, всегда в диапазоне [0, originalPrice]
func DiscountAmount(originalPrice int64, discountType domain.DiscountType, value int64) int64 {
	if originalPrice <= 0 || value <= 0 {
		return 0
	}

	var amount int64
	switch discountType {
	case domain.DiscountPercent:
		amount = originalPrice * value / 100
	case domain.DiscountFixed:
		amount = value
	default:
		return 0
	}

	if amount > originalPrice {
		return originalPrice
	}
	return amount
}

// NoDiscountQuote расчет без скидки
func NoDiscountQuote(originalPrice int64) Quote {
	return Quote{
		OriginalPrice: originalPrice,
		FinalPrice:    originalPrice,
		Source:        domain.NoDiscount(),
	}
}

// CouponQuote расчет со скидкой по купону
func CouponQuote(originalPrice int64, coupon *domain.Coupon) Quote {
	discount := DiscountAmount(originalPrice, coupon.DiscountType, coupon.DiscountValue)
	return Quote{
		OriginalPrice:  originalPrice,
		DiscountAmount: discount,
		FinalPrice:     originalPrice - discount,
		Source:         domain.CouponSource(coupon.ID),
	}
}

// CampaignQuote расчет со скидкой по кампании
func CampaignQuote(originalPrice int64, campaign *domain.Campaign) Quote {
	discount := DiscountAmount(originalPrice, campaign.DiscountType, campaign.DiscountValue)
	return Quote{
		OriginalPrice:  originalPrice,
		DiscountAmount: discount,
		FinalPrice:     originalPrice - discount,
		Source:         domain.CampaignSource(campaign.ID),
	}
}

// Reprice пересчитывает цену при смене меню, сохраняя уже выданную скидку.
// Если новая цена меньше скидки, скидка уменьшается до цены.
func Reprice(newOriginalPrice, existingDiscount int64) (discount, final int64) {
	discount = existingDiscount
	if discount < 0 {
		discount = 0
	}
	if discount > newOriginalPrice {
		discount = newOriginalPrice
	}
	return discount, newOriginalPrice - discount
}

// CouponQualifies проверяет все условия применения купона.
// Лимит использований здесь проверяется по прочитанному значению;
// окончательно его гарантирует условное обновление счетчика в БД.
func CouponQualifies(c *domain.Coupon, storeID, menuID, originalPrice int64, now time.Time) bool {
	if c == nil || !c.IsActive {
		return false
	}
	if !withinWindow(now, c.StartDate, c.EndDate) {
		return false
	}
	if len(c.StoreIDs) > 0 && !contains(c.StoreIDs, storeID) {
		return false
	}
	if len(c.MenuIDs) > 0 && !contains(c.MenuIDs, menuID) {
		return false
	}
	if c.MaxUsageTotal != nil && c.UsageCount >= *c.MaxUsageTotal {
		return false
	}
	if c.MinPurchase != nil && originalPrice < *c.MinPurchase {
		return false
	}
	return true
}

// CampaignQualifies кампания активна, действует сейчас и явно включает салон и меню
func CampaignQualifies(c *domain.Campaign, storeID, menuID int64, now time.Time) bool {
	if c == nil || !c.IsActive {
		return false
	}
	if !withinWindow(now, c.StartDate, c.EndDate) {
		return false
	}
	return contains(c.StoreIDs, storeID) && contains(c.MenuIDs, menuID)
}

// SelectCampaign выбирает подходящую кампанию с наибольшим discountValue.
// При равенстве побеждает более поздняя по созданию, затем с большим ID.
func SelectCampaign(campaigns []*domain.Campaign, storeID, menuID int64, now time.Time) *domain.Campaign {
	candidates := make([]*domain.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if CampaignQualifies(c, storeID, menuID, now) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.DiscountValue != b.DiscountValue {
			return a.DiscountValue > b.DiscountValue
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	return candidates[0]
}

func withinWindow(now, start, end time.Time) bool {
	return !now.Before(start) && !now.After(end)
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
