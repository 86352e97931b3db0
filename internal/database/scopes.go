package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/task-manager-api/internal/utils"
)

// Paginate applies simple pagination to a GORM query. One extra row is
// fetched so the caller can tell whether another page exists.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.PerPage + 1)
	}
}
