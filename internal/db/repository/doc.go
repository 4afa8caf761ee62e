// Package repository implements the permission core's typed repositories on gorm.
// Each entity gets its own repository; Store ties them to one *gorm.DB handle, which
// may be a transaction.
package repository
