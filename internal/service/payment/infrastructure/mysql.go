package infrastructure

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewMySQLDB 打开 MySQL 连接并迁移支付记录表。
func NewMySQLDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&PaymentModel{}); err != nil {
		return nil, err
	}
	return db, nil
}
