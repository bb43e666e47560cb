package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/Bill-Pill/sunglasses-io/services"
	"github.com/gin-gonic/gin"
)

// AccessTokenParam is the query parameter carrying the session token.
const AccessTokenParam = "accessToken"

type CartController struct {
	carts services.CartService
}

func NewCartController(carts services.CartService) *CartController {
	return &CartController{carts: carts}
}

// GetCart handles GET /api/me/cart.
func (cc *CartController) GetCart(c *gin.Context) {
	cart, err := cc.carts.GetCart(c.Request.Context(), c.Query(AccessTokenParam))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddToCart handles POST /api/me/cart. The body is handed over undecoded so
// the token is checked before the payload.
func (cc *CartController) AddToCart(c *gin.Context) {
	body, _ := c.GetRawData()

	line, err := cc.carts.AddToCartJSON(c.Request.Context(), c.Query(AccessTokenParam), body)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, line)
}

// RemoveFromCart handles DELETE /api/me/cart/:id.
func (cc *CartController) RemoveFromCart(c *gin.Context) {
	cart, err := cc.carts.RemoveFromCart(c.Request.Context(), c.Query(AccessTokenParam), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// UpdateQuantity handles POST /api/me/cart/:id with a {"quantity": n} body.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	line, err := cc.carts.UpdateQuantity(c.Request.Context(), c.Query(AccessTokenParam), c.Param("id"), quantityFromBody(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, line)
}

// quantityFromBody returns the quantity as text whether it was sent as a
// JSON number or a string. Anything unreadable yields "", which the cart
// service rejects after authenticating the caller.
func quantityFromBody(c *gin.Context) string {
	var body struct {
		Quantity json.RawMessage `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		return ""
	}

	raw := bytes.TrimSpace(body.Quantity)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	if bytes.Equal(raw, []byte("null")) {
		return ""
	}
	return string(raw)
}
