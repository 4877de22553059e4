package service

import (
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

// ProductCatalog 商品目录（外部协作方），只提供按 ID 读取当前价格
type ProductCatalog interface {
	GetProduct(productID uint) (*models.Product, error)
}

// CartCollaborator 购物车协作方，下单流程只读取与清空
type CartCollaborator interface {
	GetCart(userID uint) (*models.Cart, error)
	ClearCart(userID uint) error
}

type repositoryCatalog struct {
	productRepo repository.ProductRepository
}

// NewProductCatalog 基于商品仓库的目录实现
func NewProductCatalog(productRepo repository.ProductRepository) ProductCatalog {
	return &repositoryCatalog{productRepo: productRepo}
}

func (c *repositoryCatalog) GetProduct(productID uint) (*models.Product, error) {
	return c.productRepo.GetByID(productID)
}
