package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/wargadigital/rukem/internal/export"
	"github.com/wargadigital/rukem/internal/store"
)

type ExportHandler struct {
	memberStore *store.MemberStore
	ledgerStore *store.LedgerStore
	logger      *slog.Logger
}

func NewExportHandler(ms *store.MemberStore, ls *store.LedgerStore, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{memberStore: ms, ledgerStore: ls, logger: logger}
}

func attachment(w http.ResponseWriter, contentType, basename, ext string) {
	filename := fmt.Sprintf("%s-%s.%s", basename, time.Now().Format("2006-01-02"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func (h *ExportHandler) MembersCSV(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberStore.List()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to export members")
		return
	}

	attachment(w, "text/csv", "daftar-anggota", "csv")
	if err := export.WriteMembersCSV(w, members); err != nil {
		h.logger.Error("write members csv", "error", err)
	}
}

func (h *ExportHandler) MembersExcel(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberStore.List()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to export members")
		return
	}

	attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "daftar-anggota", "xlsx")
	if err := export.WriteMembersExcel(w, members); err != nil {
		h.logger.Error("write members excel", "error", err)
	}
}

func (h *ExportHandler) MembersPDF(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberStore.List()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to export members")
		return
	}

	attachment(w, "application/pdf", "daftar-anggota", "pdf")
	if err := export.WriteMembersPDF(w, members); err != nil {
		h.logger.Error("write members pdf", "error", err)
	}
}

func (h *ExportHandler) LedgerCSV(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledgerStore.List()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to export ledger")
		return
	}

	attachment(w, "text/csv", "buku-kas", "csv")
	if err := export.WriteLedgerCSV(w, entries); err != nil {
		h.logger.Error("write ledger csv", "error", err)
	}
}

func (h *ExportHandler) LedgerExcel(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledgerStore.List()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to export ledger")
		return
	}
	summary, err := h.ledgerStore.Summary()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to export ledger")
		return
	}

	attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "buku-kas", "xlsx")
	if err := export.WriteLedgerExcel(w, entries, *summary); err != nil {
		h.logger.Error("write ledger excel", "error", err)
	}
}

// MonthlyReportPDF serves the monthly cash report covering the trailing
// twelve months.
func (h *ExportHandler) MonthlyReportPDF(w http.ResponseWriter, r *http.Request) {
	months, err := h.ledgerStore.Monthly(12)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to build report")
		return
	}
	summary, err := h.ledgerStore.Summary()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to build report")
		return
	}

	attachment(w, "application/pdf", "laporan-kas", "pdf")
	if err := export.WriteMonthlyReportPDF(w, months, *summary); err != nil {
		h.logger.Error("write monthly report pdf", "error", err)
	}
}
