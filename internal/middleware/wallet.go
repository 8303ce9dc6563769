package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
)

// Session and locals keys shared between middleware and handlers.
const (
	// SessionWalletKey holds the connected wallet address in the session.
	SessionWalletKey = "wallet_address"
	// LocalsWalletKey exposes the wallet address to downstream handlers.
	LocalsWalletKey = "wallet"
	// FlashErrorKey and FlashSuccessKey carry one-shot messages across a
	// redirect, the way the flash pattern works.
	FlashErrorKey   = "flash_error"
	FlashSuccessKey = "flash_success"
)

// WalletMiddleware gates routes on a connected wallet in the session.
type WalletMiddleware struct{}

// NewWalletMiddleware creates a new wallet middleware instance.
func NewWalletMiddleware() *WalletMiddleware {
	return &WalletMiddleware{}
}

// RequireWallet ensures a wallet is connected, flashing an error and
// redirecting to the index if not.
func (m *WalletMiddleware) RequireWallet(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return c.Redirect().To("/")
	}

	address, _ := sess.Get(SessionWalletKey).(string)
	if address == "" {
		sess.Set(FlashErrorKey, "[ERROR] Please connect your wallet before searching")
		return c.Redirect().To("/")
	}

	c.Locals(LocalsWalletKey, address)
	return c.Next()
}

// OptionalWallet loads the wallet address if connected, but doesn't require one.
func (m *WalletMiddleware) OptionalWallet(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return c.Next()
	}

	if address, _ := sess.Get(SessionWalletKey).(string); address != "" {
		c.Locals(LocalsWalletKey, address)
	}
	return c.Next()
}

// WalletFromCtx returns the wallet address loaded by the middleware, or ""
// when no wallet is connected.
func WalletFromCtx(c fiber.Ctx) string {
	address, _ := c.Locals(LocalsWalletKey).(string)
	return address
}
