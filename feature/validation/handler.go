package validation

import (
	"errors"
	"time"

	"db-validator/core/logger"
	"db-validator/core/reconcile"
	"db-validator/feature/validation/report"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

// Handler handles HTTP requests for validation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the validation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/validation")
	group.Get("/health", h.HandleHealth)
	group.Post("/compare-all", h.HandleCompareAll)
	group.Post("/compare-table/:table", h.HandleCompareTable)
	group.Post("/table-count-comparison", h.HandleCountComparison)
	group.Post("/table-data-comparison/:table", h.HandleDataComparison)
	group.Get("/report/:format", h.HandleReport)
	group.Get("/history", h.HandleHistory)
	group.Get("/history/summary", h.HandleSummaries)
	group.Get("/schema", h.HandleSchema)
	group.Get("/archive", h.HandleArchiveList)
	group.Get("/archive/:name", h.HandleArchiveGet)
}

// HandleHealth reports that the service is up.
// @Summary Health
// @Description Liveness probe.
// @Tags validation
// @Produce json
// @Success 200 {object} map[string]string
// @Router /validation/health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "UP",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HandleCompareAll compares every configured table.
// @Summary Compare All Tables
// @Description Run a full comparison of every configured table under one batch id.
// @Tags validation
// @Produce json
// @Success 200 {object} Run "Run result"
// @Failure 409 {object} map[string]string "Run already in progress"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /validation/compare-all [post]
func (h *Handler) HandleCompareAll(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	run, err := h.service.CompareAll(c.UserContext())
	if err != nil {
		l.Error("Full comparison failed", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(run)
}

// HandleCompareTable compares a single table.
// @Summary Compare Table
// @Description Full comparison of one configured table.
// @Tags validation
// @Produce json
// @Param table path string true "Table name"
// @Success 200 {object} reconcile.ComparisonResult
// @Failure 400 {object} map[string]string "Invalid table"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /validation/compare-table/{table} [post]
func (h *Handler) HandleCompareTable(c *fiber.Ctx) error {
	table := c.Params("table")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("table", table))

	result, err := h.service.CompareTable(c.UserContext(), table)
	if err != nil {
		l.Error("Table comparison failed", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(result)
}

// HandleCountComparison compares row counts within an optional window.
// @Summary Table Count Comparison
// @Description Compare record and replica row counts, optionally within a time window.
// @Tags validation
// @Accept json
// @Produce json
// @Param request body CountRequest false "Tables and window"
// @Success 200 {array} reconcile.TableCountComparison
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /validation/table-count-comparison [post]
func (h *Handler) HandleCountComparison(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req CountRequest
	if body := parseBody(c, &req); body != nil {
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	results, err := h.service.CompareCounts(c.UserContext(), req)
	if err != nil {
		l.Error("Count comparison failed", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(results)
}

// HandleDataComparison compares one table with request-level options.
// @Summary Table Data Comparison
// @Description Compare one table with extra ignored fields and an optional time window.
// @Tags validation
// @Accept json
// @Produce json
// @Param table path string true "Table name"
// @Param request body DataRequest false "Ignored fields and window"
// @Success 200 {object} reconcile.TableDataComparison
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /validation/table-data-comparison/{table} [post]
func (h *Handler) HandleDataComparison(c *fiber.Ctx) error {
	table := c.Params("table")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("table", table))

	var req DataRequest
	if body := parseBody(c, &req); body != nil {
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	result, err := h.service.CompareTableData(c.UserContext(), table, req)
	if err != nil {
		l.Error("Data comparison failed", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(result)
}

// HandleReport renders the latest full run.
// @Summary Report
// @Description Render the latest full run as text, compact, json, xlsx or trend. A run is started when none is recent.
// @Tags validation
// @Produce plain,json,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format path string true "text, compact, json, xlsx or trend"
// @Param download query bool false "Send as attachment"
// @Param refresh query bool false "Force a new run"
// @Param days query int false "Trend window in days"
// @Success 200 {string} string "Report"
// @Failure 400 {object} map[string]string "Unknown format"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /validation/report/{format} [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	format := c.Params("format")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("format", format))
	now := time.Now()

	if format == "trend" {
		text, err := h.service.Trend(c.UserContext(), c.QueryInt("days", 30))
		if err != nil {
			l.Error("Trend report failed", zap.Error(err))
			return errorResponse(c, err)
		}
		return sendReport(c, fiber.MIMETextPlainCharsetUTF8, report.FileName(now, "txt"), []byte(text))
	}

	switch format {
	case "text", "compact", "json", "xlsx":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown report format: " + format})
	}

	run, err := h.service.LatestRun(c.UserContext(), c.QueryBool("refresh"))
	if err != nil {
		l.Error("Report run failed", zap.Error(err))
		return errorResponse(c, err)
	}

	switch format {
	case "text":
		return sendReport(c, fiber.MIMETextPlainCharsetUTF8, report.FileName(now, "txt"),
			[]byte(report.Text(run.Results, run.FinishedAt)))
	case "compact":
		return sendReport(c, fiber.MIMETextPlainCharsetUTF8, report.FileName(now, "txt"),
			[]byte(report.Compact(run.Results, run.FinishedAt)))
	case "json":
		data, err := report.JSON(run.Results)
		if err != nil {
			return errorResponse(c, err)
		}
		return sendReport(c, fiber.MIMEApplicationJSON, report.FileName(now, "json"), data)
	default:
		data, err := report.XLSX(run.Results)
		if err != nil {
			l.Error("XLSX report failed", zap.Error(err))
			return errorResponse(c, err)
		}
		c.Attachment(report.FileName(now, "xlsx"))
		c.Set(fiber.HeaderContentType, report.ContentTypeXLSX)
		return c.Send(data)
	}
}

// HandleHistory returns stored validation records.
// @Summary Validation History
// @Description Query stored records by batch, table, or age.
// @Tags validation
// @Produce json
// @Param batch_id query string false "Batch id"
// @Param table query string false "Table name"
// @Param days query int false "Age in days (default 7)"
// @Param limit query int false "Max records per table (default 10)"
// @Param inconsistent query bool false "Only inconsistent records"
// @Success 200 {array} history.ValidationRecord
// @Failure 503 {object} map[string]string "History disabled"
// @Router /validation/history [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	records, err := h.service.History(c.UserContext(), HistoryQuery{
		Table:        c.Query("table"),
		BatchID:      c.Query("batch_id"),
		Days:         c.QueryInt("days"),
		Limit:        c.QueryInt("limit"),
		Inconsistent: c.QueryBool("inconsistent"),
	})
	if err != nil {
		l.Error("History query failed", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(records)
}

// HandleSummaries returns the latest daily summaries.
// @Summary Daily Summaries
// @Tags validation
// @Produce json
// @Param limit query int false "Number of days (default 10)"
// @Success 200 {array} history.ValidationSummary
// @Failure 503 {object} map[string]string "History disabled"
// @Router /validation/history/summary [get]
func (h *Handler) HandleSummaries(c *fiber.Ctx) error {
	summaries, err := h.service.Summaries(c.UserContext(), c.QueryInt("limit"))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Summary query failed", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(summaries)
}

// HandleSchema reports schema drift between both sides.
// @Summary Schema Drift
// @Description List columns present on only one side for every configured table.
// @Tags validation
// @Produce json
// @Success 200 {object} checks.SchemaReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /validation/schema [get]
func (h *Handler) HandleSchema(c *fiber.Ctx) error {
	result, err := h.service.CheckSchema(c.UserContext())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Schema check failed", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(result)
}

// HandleArchiveList lists archived reports.
// @Summary Archived Reports
// @Tags validation
// @Produce json
// @Success 200 {array} storage.ArchivedObject
// @Failure 503 {object} map[string]string "Archive disabled"
// @Router /validation/archive [get]
func (h *Handler) HandleArchiveList(c *fiber.Ctx) error {
	objects, err := h.service.ArchivedReports(c.UserContext())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Archive listing failed", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(objects)
}

// HandleArchiveGet downloads one archived report.
// @Summary Archived Report
// @Tags validation
// @Produce plain,json
// @Param name path string true "Report name (e.g. '<batch_id>.json')"
// @Success 200 {string} string "Report"
// @Failure 503 {object} map[string]string "Archive disabled"
// @Router /validation/archive/{name} [get]
func (h *Handler) HandleArchiveGet(c *fiber.Ctx) error {
	name := c.Params("name")
	data, err := h.service.ArchivedReport(c.UserContext(), name)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Archive read failed", zap.String("name", name), zap.Error(err))
		return errorResponse(c, err)
	}
	c.Attachment(name)
	return c.Send(data)
}

func sendReport(c *fiber.Ctx, contentType, fileName string, data []byte) error {
	if c.QueryBool("download") {
		c.Attachment(fileName)
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

// parseBody decodes and validates an optional JSON body. It returns the
// 400 response body on failure and nil otherwise.
func parseBody(c *fiber.Ctx, out any) fiber.Map {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(out); err != nil {
			return fiber.Map{"error": "invalid request body: " + err.Error()}
		}
	}
	if err := validate.Struct(out); err != nil {
		fields := map[string]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		return fiber.Map{"error": "invalid request", "fields": fields}
	}
	return nil
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrInvalidIdentifier),
		errors.Is(err, reconcile.ErrTableNotAllowed),
		errors.Is(err, reconcile.ErrUnknownColumn):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrRunInProgress):
		return fiber.StatusConflict
	case errors.Is(err, ErrHistoryDisabled), errors.Is(err, ErrArchiveDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
