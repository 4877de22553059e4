package repository

import (
	"strings"

	"gorm.io/gorm"
)

// likeEscaper 转义用户输入中的 LIKE 通配符，使搜索按字面匹配
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsCondition 返回单列子串匹配条件及参数；postgres 使用 ILIKE 忽略大小写
func containsCondition(db *gorm.DB, column, keyword string) (string, string) {
	operator := "LIKE"
	if isPostgres(db) {
		operator = "ILIKE"
	}
	return column + " " + operator + ` ? ESCAPE '\'`, "%" + likeEscaper.Replace(keyword) + "%"
}

func isPostgres(db *gorm.DB) bool {
	if db == nil || db.Dialector == nil {
		return false
	}
	switch strings.ToLower(db.Dialector.Name()) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}
