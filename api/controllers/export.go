package controllers

import (
	"net/http"

	"github.com/angelmondragon/labstock-backend/api/responses"
	"github.com/angelmondragon/labstock-backend/internal/export"
	"github.com/angelmondragon/labstock-backend/pkg/logger"
)

// AdminExport streams the admin workbook as an attachment.
func AdminExport(svc export.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.Build(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteFile(w, report.Filename, report.ContentType, report.Data)
	}
}
