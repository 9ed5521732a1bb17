package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/palemoky/trick-taking/internal/apperrors"
	"github.com/palemoky/trick-taking/internal/protocol"
	"github.com/palemoky/trick-taking/internal/protocol/convert"
	"github.com/palemoky/trick-taking/internal/server/handler"
)

// StatsResponse 服务器状态
type StatsResponse struct {
	Online       int  `json:"online"`
	Tables       int  `json:"tables"`
	ActiveRounds int  `json:"active_rounds"`
	Maintenance  bool `json:"maintenance"`
}

// newEcho 注册 HTTP 路由：/ws 为 WebSocket 入口，/api 为只读查询和纯计算接口
func (s *Server) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/ws", echo.WrapHandler(http.HandlerFunc(s.handleWebSocket)))
	e.GET("/health", s.handleHealth)

	api := e.Group("/api")
	api.GET("/stats", s.handleStats)
	api.GET("/rule-sets", s.handleListRuleSets)
	api.GET("/rule-sets/:id", s.handleGetRuleSet)
	api.POST("/resolve", s.handleResolve)
	api.GET("/tables", s.handleListTables)

	return e
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, StatsResponse{
		Online:       s.GetOnlineCount(),
		Tables:       s.tables.TableCount(),
		ActiveRounds: s.tables.GetActiveRoundsCount(),
		Maintenance:  s.IsMaintenanceMode(),
	})
}

func (s *Server) handleListRuleSets(c echo.Context) error {
	return c.JSON(http.StatusOK, protocol.RuleSetListPayload{
		RuleSets: convert.RuleSetsToInfos(s.engine.Registry().List()),
	})
}

func (s *Server) handleGetRuleSet(c echo.Context) error {
	id := c.Param("id")
	for i, rs := range s.engine.Registry().List() {
		if rs.ID == id {
			return c.JSON(http.StatusOK, convert.RuleSetToInfo(i, rs))
		}
	}
	return c.JSON(http.StatusNotFound, errorBody(apperrors.ErrUnknownRuleSet))
}

// handleResolve 按规则集判定一墩的赢家
func (s *Server) handleResolve(c echo.Context) error {
	var req protocol.ResolvePayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, protocol.ErrorPayload{
			Code:    protocol.ErrCodeInvalidMsg,
			Message: protocol.ErrorMessages[protocol.ErrCodeInvalidMsg],
		})
	}

	result, err := handler.Resolve(s.engine, &req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, apperrors.ErrUnknownRuleSet) {
			status = http.StatusNotFound
		}
		return c.JSON(status, errorBody(err))
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleListTables(c echo.Context) error {
	return c.JSON(http.StatusOK, s.tables.Summaries())
}

func errorBody(err error) protocol.ErrorPayload {
	return protocol.ErrorPayload{Code: apperrors.Code(err), Message: err.Error()}
}
