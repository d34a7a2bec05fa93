// Package main peminjaman alat API.
//
// @title           Peminjaman Alat API
// @version         1.0
// @description     Backend peminjaman alat sekolah (inventaris, peminjaman, pengembalian, denda).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/Sheila49/paket1-ukk-be/app/echoServer"
	alatctrl "github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/alat"
	authctrl "github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/auth"
	katctrl "github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/kategori"
	lapctrl "github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/laporan"
	logctrl "github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/log"
	pjmctrl "github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/peminjaman"
	gmbctrl "github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/pengembalian"
	userctrl "github.com/Sheila49/paket1-ukk-be/app/echoServer/controller/user"
	"github.com/Sheila49/paket1-ukk-be/app/echoServer/validation"
	"github.com/Sheila49/paket1-ukk-be/config"
	alatrepo "github.com/Sheila49/paket1-ukk-be/repository/alat"
	katrepo "github.com/Sheila49/paket1-ukk-be/repository/kategori"
	logrepo "github.com/Sheila49/paket1-ukk-be/repository/log"
	pjmrepo "github.com/Sheila49/paket1-ukk-be/repository/peminjaman"
	gmbrepo "github.com/Sheila49/paket1-ukk-be/repository/pengembalian"
	userrepo "github.com/Sheila49/paket1-ukk-be/repository/user"
	alatsvc "github.com/Sheila49/paket1-ukk-be/service/alat"
	authsvc "github.com/Sheila49/paket1-ukk-be/service/auth"
	"github.com/Sheila49/paket1-ukk-be/service/denda"
	katsvc "github.com/Sheila49/paket1-ukk-be/service/kategori"
	logsvc "github.com/Sheila49/paket1-ukk-be/service/log"
	pjmsvc "github.com/Sheila49/paket1-ukk-be/service/peminjaman"
	gmbsvc "github.com/Sheila49/paket1-ukk-be/service/pengembalian"
	usersvc "github.com/Sheila49/paket1-ukk-be/service/user"
	"github.com/Sheila49/paket1-ukk-be/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	kr := katrepo.New(db)
	ar := alatrepo.New(db)
	pr := pjmrepo.New(db)
	gr := gmbrepo.New(db)
	lr := logrepo.New(db)

	// services
	ls := logsvc.New(lr, log)
	as := authsvc.New(ur, cfg.JWTSecret)
	us := usersvc.New(ur, ls)
	ks := katsvc.New(kr, ls)
	alats := alatsvc.New(ar, ls)
	pjms := pjmsvc.New(db, pr, ar, ls)
	calc := denda.NewCalculator(denda.Config{
		PerHari:     cfg.Denda.PerHari,
		RusakRingan: cfg.Denda.RusakRingan,
		RusakBerat:  cfg.Denda.RusakBerat,
		Maks:        cfg.Denda.Maks,
	})
	gmbs := gmbsvc.New(db, gr, pr, ar, calc, ls)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	alatC := &alatctrl.Controller{Svc: alats, V: v, Log: log}
	katC := &katctrl.Controller{Svc: ks, V: v, Log: log}
	pjmC := &pjmctrl.Controller{Svc: pjms, V: v, Log: log}
	gmbC := &gmbctrl.Controller{Svc: gmbs, V: v, Log: log}
	userC := &userctrl.Controller{Svc: us, V: v, Log: log}
	logC := &logctrl.Controller{Svc: ls, Log: log}
	lapC := &lapctrl.Controller{PjmRepo: pr, GmbRepo: gr, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:         authC,
		Alat:         alatC,
		Kategori:     katC,
		Peminjaman:   pjmC,
		Pengembalian: gmbC,
		User:         userC,
		Log:          logC,
		Laporan:      lapC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
