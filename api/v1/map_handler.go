package v1

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/thesrcielos/TileMapServer/api/middleware"
	"github.com/thesrcielos/TileMapServer/internal/world"
)

const INVALID_REQUEST = "invalid request"

// maxDocumentSize caps request bodies that carry a map document.
const maxDocumentSize = "16M"

var MapService *world.MapService

// RegisterMapRoutes mounts the read-only routes on public and the routes
// that change maps on protected.
func RegisterMapRoutes(public *echo.Group, protected *echo.Group) {
	public.GET("", GetMapsHandler)
	public.POST("/validate", ValidateMapHandler, echomw.BodyLimit(maxDocumentSize))
	public.GET("/:id", GetMapHandler)
	public.GET("/:id/summary", GetMapSummaryHandler)
	public.GET("/:id/tiles", TilesAtHandler)
	public.GET("/:id/walls", IsWallHandler)

	protected.POST("", PublishMapHandler, echomw.BodyLimit(maxDocumentSize))
	protected.DELETE("/:id", DeleteMapHandler)
}

// bodyError keeps the 413 raised by the body limit and reports anything else
// as a bad request.
func bodyError(err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code == http.StatusRequestEntityTooLarge {
		return httpErr
	}
	return echo.NewHTTPError(http.StatusBadRequest, INVALID_REQUEST)
}

func PublishMapHandler(c echo.Context) error {
	var r world.PublishRequest
	if err := c.Bind(&r); err != nil {
		return bodyError(err)
	}
	r.OwnerID = middleware.UserID(c)
	if r.OwnerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	resp, err := MapService.PublishMap(c.Request().Context(), &r)
	if err != nil {
		if resp != nil {
			return c.JSON(http.StatusUnprocessableEntity, resp)
		}
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func ValidateMapHandler(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return bodyError(err)
	}
	resp, err := MapService.ValidateMap(body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func GetMapsHandler(c echo.Context) error {
	page := c.QueryParam("page")
	pageSize := c.QueryParam("size")
	if page == "" || pageSize == "" {
		return echo.NewHTTPError(http.StatusBadRequest, INVALID_REQUEST)
	}

	pageInt, err := strconv.Atoi(page)
	if err != nil || pageInt < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, INVALID_REQUEST)
	}
	pageSizeInt, err := strconv.Atoi(pageSize)
	if err != nil || pageSizeInt <= 0 || pageSizeInt > 100 {
		return echo.NewHTTPError(http.StatusBadRequest, INVALID_REQUEST)
	}

	maps, err := MapService.ListMaps(&world.MapPageRequest{
		Page:     pageInt,
		PageSize: pageSizeInt,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"maps": maps,
	})
}

func GetMapHandler(c echo.Context) error {
	doc, err := MapService.GetMap(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

func GetMapSummaryHandler(c echo.Context) error {
	summary, err := MapService.GetSummary(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

func cellParams(c echo.Context) (int, int, error) {
	x, err := strconv.Atoi(c.QueryParam("x"))
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "x must be an integer")
	}
	y, err := strconv.Atoi(c.QueryParam("y"))
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "y must be an integer")
	}
	return x, y, nil
}

func TilesAtHandler(c echo.Context) error {
	x, y, err := cellParams(c)
	if err != nil {
		return err
	}
	cell, err := MapService.TilesAt(c.Request().Context(), c.Param("id"), x, y)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cell)
}

func IsWallHandler(c echo.Context) error {
	x, y, err := cellParams(c)
	if err != nil {
		return err
	}
	wall, err := MapService.IsWall(c.Request().Context(), c.Param("id"), x, y)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, world.CellResponse{
		MapID: c.Param("id"),
		X:     x,
		Y:     y,
		Wall:  wall,
	})
}

func DeleteMapHandler(c echo.Context) error {
	ownerID := middleware.UserID(c)
	if ownerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	if err := MapService.DeleteMap(c.Request().Context(), ownerID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, echo.Map{
		"deleted": true,
	})
}
