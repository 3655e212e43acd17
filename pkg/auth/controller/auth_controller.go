package controller

import "github.com/labstack/echo/v4"

type AuthController interface {
	Users(c echo.Context) error
	Login(c echo.Context) error
	WhoAmI(c echo.Context) error
}
