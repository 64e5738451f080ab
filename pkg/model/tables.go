package model

import (
	"strings"

	"gorm.io/gorm"
)

// JournalTable one journal table per registry instance, e.g. coins_journal_main
func JournalTable(instance string) func(tx *gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Table("coins_journal_" + strings.ToLower(instance))
	}
}
