package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/bizops/backend/internal/domain/shared"
)

// applyPagination applies page/size and ordering from the filter
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// countThenList runs the count on the filtered query, then applies pagination
// and scans into dest. The two-step shape keeps the total independent of the
// page window.
func countThenList(query *gorm.DB, filter shared.Filter, dest any) (int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	if err := applyPagination(query, filter).Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}
