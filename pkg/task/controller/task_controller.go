package controller

import "github.com/labstack/echo/v4"

type TaskController interface {
	List(c echo.Context) error
	Create(c echo.Context) error
	Complete(c echo.Context) error
	Calendar(c echo.Context) error
	Export(c echo.Context) error
	Import(c echo.Context) error
}
