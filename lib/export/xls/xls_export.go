package xlsexport

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"teamtrack-backend/lib/utils/helpers"
	dbmodels "teamtrack-backend/models/db"
)

type Provider interface {
	ExportAttendanceList(list []dbmodels.Attendance) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var attendanceHeaders = []string{"Employee", "Date", "Clock in", "Clock out", "Breaks", "Break time", "Gross time", "Net time", "Status"}

func (i impl) ExportAttendanceList(list []dbmodels.Attendance) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close xlsx file")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, attendanceHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write xlsx header")
	}
	if len(list) != 0 {
		row, err = writeAttendanceData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "failed to write xlsx data")
		}
	}
	f.SetSheetName(sheet, "Attendance")
	return f.WriteToBuffer()
}

func writeAttendanceData(f *excelize.File, sheet string, list []dbmodels.Attendance, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(attendanceHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "Employee"
		col := 1
		name := item.UserID
		if item.User != nil {
			name = item.User.Name
		}
		if err := writeColumn(f, sheet, col, row, name); err != nil {
			return row, err
		}

		// "Date"
		col++
		if err := writeColumn(f, sheet, col, row, item.Day.Format("02.01.2006")); err != nil {
			return row, err
		}

		// "Clock in"
		col++
		if err := writeColumn(f, sheet, col, row, item.LoginTime.Format("15:04")); err != nil {
			return row, err
		}

		// "Clock out"
		col++
		if item.LogoutTime != nil {
			if err := writeColumn(f, sheet, col, row, item.LogoutTime.Format("15:04")); err != nil {
				return row, err
			}
		}

		// "Breaks"
		col++
		if err := writeColumn(f, sheet, col, row, len(item.Breaks)); err != nil {
			return row, err
		}

		// "Break time"
		col++
		if err := writeColumn(f, sheet, col, row, helpers.FormatMinutes(item.TotalBreakMinutes)); err != nil {
			return row, err
		}

		// "Gross time"
		col++
		if err := writeColumn(f, sheet, col, row, helpers.FormatMinutes(item.GrossWorkingMinutes)); err != nil {
			return row, err
		}

		// "Net time"
		col++
		if err := writeColumn(f, sheet, col, row, helpers.FormatMinutes(item.NetWorkingMinutes)); err != nil {
			return row, err
		}

		// "Status"
		col++
		if err := writeColumn(f, sheet, col, row, string(item.Status)); err != nil {
			return row, err
		}
	}
	return row, nil
}
