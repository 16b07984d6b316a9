package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	AuthHandler    *AuthHandler
	ShopHandler    *ShopHandler
	CartHandler    *CartHandler
	ProductHandler *ProductHandler
	SearchHandler  *SearchHandler
	Auth           *AuthMiddleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.Logout)

	e.GET("/search", d.SearchHandler.Search)
	e.GET("/products", d.ProductHandler.GetProducts)
	e.GET("/products/:id", d.ProductHandler.GetProduct)

	shop := e.Group("", d.Auth.RequireUser)
	shop.GET("/shop", d.ShopHandler.Shop)
	shop.GET("/cart", d.CartHandler.GetCart)
	shop.GET("/addtocart/:productid", d.CartHandler.AddToCart)
	shop.GET("/increment/:productid", d.CartHandler.Increment)
	shop.GET("/decrement/:productid", d.CartHandler.Decrement)
	shop.GET("/remove/:productid", d.CartHandler.Remove)

	admin := e.Group("/admin", d.Auth.RequireAdmin)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
}
