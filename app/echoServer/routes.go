package echoServer

import (
	"net/http"

	"github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/alat"
	"github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/auth"
	"github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/kategori"
	"github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/laporan"
	logctl "github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/log"
	"github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/peminjaman"
	"github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/pengembalian"
	"github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/user"
	"github.com/Sheila49/paket1-ukk-be/model"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth         *auth.Controller
	Alat         *alat.Controller
	Kategori     *kategori.Controller
	Peminjaman   *peminjaman.Controller
	Pengembalian *pengembalian.Controller
	User         *user.Controller
	Log          *logctl.Controller
	Laporan      *laporan.Controller
	JWTSecret    string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/api")
	pub.POST("/auth/register", c.Auth.Register)
	pub.POST("/auth/login", c.Auth.Login)

	// Auth
	api := e.Group("/api")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	// claims extraction: user_id + role into the echo context
	api.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tokenObj := ctx.Get("user")
			claims, ok := tokenObj.(jwt.MapClaims)
			if !ok {
				if tok, tokOK := tokenObj.(*jwt.Token); tokOK {
					claims, ok = tok.Claims.(jwt.MapClaims)
				}
			}
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			sub, ok := claims["sub"].(float64)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", int64(sub))
			if role, ok := claims["role"].(string); ok {
				ctx.Set("role", role)
			}
			return next(ctx)
		}
	})

	staff := []model.Role{model.RoleAdmin, model.RolePetugas}

	api.GET("/auth/me", c.Auth.Me)

	// Alat
	api.GET("/alat", c.Alat.List)
	api.GET("/alat/:id", c.Alat.Detail)
	api.POST("/alat", c.Alat.Create, RequireRole(staff...))
	api.PUT("/alat/:id", c.Alat.Update, RequireRole(staff...))
	api.DELETE("/alat/:id", c.Alat.Delete, RequireRole(model.RoleAdmin))

	// Kategori
	api.GET("/kategori", c.Kategori.List)
	api.GET("/kategori/:id", c.Kategori.Detail)
	api.POST("/kategori", c.Kategori.Create, RequireRole(model.RoleAdmin))
	api.PUT("/kategori/:id", c.Kategori.Update, RequireRole(model.RoleAdmin))
	api.DELETE("/kategori/:id", c.Kategori.Delete, RequireRole(model.RoleAdmin))

	// Peminjaman; list/detail scope to the caller inside the service
	api.POST("/peminjaman", c.Peminjaman.Create)
	api.GET("/peminjaman", c.Peminjaman.List)
	api.GET("/peminjaman/:id", c.Peminjaman.Detail)
	api.PUT("/peminjaman/:id/approve", c.Peminjaman.Approve, RequireRole(staff...))
	api.PUT("/peminjaman/:id/reject", c.Peminjaman.Reject, RequireRole(staff...))
	api.PUT("/peminjaman/:id/dipinjam", c.Peminjaman.MarkDipinjam, RequireRole(staff...))
	api.PUT("/peminjaman/:id", c.Peminjaman.Update, RequireRole(model.RoleAdmin))
	api.DELETE("/peminjaman/:id", c.Peminjaman.Delete, RequireRole(model.RoleAdmin))

	// Pengembalian
	api.POST("/pengembalian", c.Pengembalian.Create, RequireRole(staff...))
	api.GET("/pengembalian", c.Pengembalian.List, RequireRole(staff...))
	api.GET("/pengembalian/:id", c.Pengembalian.Detail, RequireRole(staff...))
	api.POST("/pengembalian/:id/bayar-denda", c.Pengembalian.BayarDenda, RequireRole(staff...))
	api.GET("/pengembalian/estimasi/:peminjamanId", c.Pengembalian.Estimasi)

	// Users (admin)
	api.POST("/users", c.User.Create, RequireRole(model.RoleAdmin))
	api.GET("/users", c.User.List, RequireRole(model.RoleAdmin))
	api.GET("/users/:id", c.User.Detail, RequireRole(model.RoleAdmin))
	api.PUT("/users/:id", c.User.Update, RequireRole(model.RoleAdmin))
	api.DELETE("/users/:id", c.User.Delete, RequireRole(model.RoleAdmin))

	// Audit + reports
	api.GET("/log-aktivitas", c.Log.List, RequireRole(model.RoleAdmin))
	api.GET("/laporan/peminjaman", c.Laporan.Peminjaman, RequireRole(staff...))
	api.GET("/laporan/denda", c.Laporan.Denda, RequireRole(staff...))
}
