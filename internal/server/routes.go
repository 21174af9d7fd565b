package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Mugiii7/CustomHA/internal/bridge"
	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/view"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 * 1024

type message struct {
	Message string `json:"message"`
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)
	e.GET("/", s.DashboardHandler)
	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	api := e.Group("/api")
	api.GET("/", s.APIStatusHandler)
	api.GET("/config", s.ConfigHandler)
	api.GET("/states", s.StatesHandler)
	api.GET("/states/:entity_id", s.StateHandler)
	api.GET("/zones", s.ZonesHandler)
	api.GET("/services", s.ServicesHandler)
	api.POST("/services/:domain/:service", s.CallServiceHandler)
	api.POST("/template", s.TemplateHandler)
	api.GET("/registration", s.RegistrationHandler)
	api.GET("/demo", s.DemoServerHandler)
	api.POST("/bridge", s.BridgeHandler)

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	if response, ok := res.(domain.ActorHealthResponse); ok && response.Healthy {
		return c.String(http.StatusOK, "health_check: OK")
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

func (s *Server) DashboardHandler(c echo.Context) error {
	doc := view.Render(s.integration.Entities(c.Request().Context()))
	templ.Handler(doc.Component()).ServeHTTP(c.Response(), c.Request())
	return nil
}

func (s *Server) APIStatusHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, message{Message: "API running."})
}

func (s *Server) ConfigHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.integration.Config(c.Request().Context()))
}

func (s *Server) StatesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.integration.Entities(c.Request().Context()))
}

func (s *Server) StateHandler(c echo.Context) error {
	e, ok := s.integration.Entity(c.Request().Context(), c.Param("entity_id"))
	if !ok {
		return c.JSON(http.StatusNotFound, message{Message: "Entity not found."})
	}
	return c.JSON(http.StatusOK, e)
}

func (s *Server) ZonesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.integration.Zones(c.Request().Context()))
}

func (s *Server) ServicesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.integration.Services(c.Request().Context()))
}

// CallServiceHandler runs the call through the entities actor so the state
// change reaches every transport.
func (s *Server) CallServiceHandler(c echo.Context) error {
	payload := readPayload(c)
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.CallServiceRequest{
		Domain:  c.Param("domain"),
		Service: c.Param("service"),
		Data:    payload,
		Origin:  "http",
	}, 5*time.Second).Result()
	if err != nil {
		s.logger.Error("http: call service", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, message{Message: "Service call failed."})
	}
	resp, ok := res.(domain.CallServiceResponse)
	if !ok || resp.HasResponseError() {
		return c.JSON(http.StatusInternalServerError, message{Message: "Service call failed."})
	}
	changed := resp.Changed
	if changed == nil {
		changed = []domain.Entity{}
	}
	return c.JSON(http.StatusOK, changed)
}

func (s *Server) TemplateHandler(c echo.Context) error {
	var body struct {
		Template  string         `json:"template"`
		Variables map[string]any `json:"variables"`
	}
	// the demo answer does not depend on the body
	_ = json.NewDecoder(io.LimitReader(c.Request().Body, maxBodyBytes)).Decode(&body)
	return c.String(http.StatusOK, s.integration.RenderTemplate(c.Request().Context(), body.Template, body.Variables))
}

func (s *Server) RegistrationHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.integration.Registration(c.Request().Context()))
}

func (s *Server) DemoServerHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.DemoServer{
		Id:   domain.DEMO_SERVER_ID,
		Url:  domain.DEMO_SERVER_URL,
		Name: s.integration.Config(c.Request().Context()).LocationName,
	})
}

// BridgeHandler accepts one outward envelope. It is never dispatched into the
// store.
func (s *Server) BridgeHandler(c echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, message{Message: "Invalid bridge message."})
	}
	env, err := bridge.Decode(data)
	if err != nil {
		s.logger.Debug("http: rejected bridge message", zap.Error(err))
		if s.metrics != nil {
			kind := "invalid"
			if errors.Is(err, bridge.ErrUnknownType) {
				kind = "unknown"
			}
			s.metrics.BridgeMessage(kind)
		}
		return c.JSON(http.StatusBadRequest, message{Message: "Invalid bridge message."})
	}

	s.logger.Info("http: bridge message", zap.String("type", env.Type),
		zap.String("domain", env.Domain), zap.String("service", env.Service))
	if s.metrics != nil {
		s.metrics.BridgeMessage(env.Type)
	}
	s.rootContext.Send(s.masterActor, domain.PublishBridgeMessageRequest{
		Type:    env.Type,
		Payload: env.Encode(),
	})
	return c.JSON(http.StatusAccepted, message{Message: "Accepted."})
}

// readPayload decodes the request body as a JSON object. Anything else is an
// empty payload.
func readPayload(c echo.Context) map[string]any {
	payload := map[string]any{}
	body := c.Request().Body
	if body == nil {
		return payload
	}
	if err := json.NewDecoder(io.LimitReader(body, maxBodyBytes)).Decode(&payload); err != nil || payload == nil {
		return map[string]any{}
	}
	return payload
}
