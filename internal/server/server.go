package server

import (
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// NewはEchoエンジンを作る。ロギングとpanic回復はここで全ルートにかける。
func New() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	return e
}

// Startはポート指定を整えてListenする。
func Start(e *echo.Echo, port string) error {
	addr := port
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}
	return e.Start(addr)
}
