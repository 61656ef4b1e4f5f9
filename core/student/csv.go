package student

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

// CSV headers of the bulk upload and export files.
const (
	HeaderName        = "Student Name"
	HeaderFatherName  = "Father Name"
	HeaderMotherName  = "Mother Name"
	HeaderRollNumber  = "Roll Number"
	HeaderGender      = "Gender"
	HeaderPhoneNumber = "Phone Number"
	HeaderDateOfBirth = "Date of Birth"
	HeaderAddress     = "Address"
	HeaderEmail       = "Email"
)

// CSVHeaders are the required columns; Email is optional on upload and always written on export.
var CSVHeaders = []string{
	HeaderName, HeaderFatherName, HeaderMotherName, HeaderRollNumber,
	HeaderGender, HeaderPhoneNumber, HeaderDateOfBirth, HeaderAddress,
}

var ErrMissingColumn = errors.New("missing CSV column")

// ReadCSV decodes a bulk upload file into one NewStudent per data row, in file order.
// Columns are matched by header name, in any order; unknown columns are ignored.
func ReadCSV(r io.Reader) ([]NewStudent, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true

	header, err := rd.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.Wrap(ErrMissingColumn, HeaderName)
		}
		return nil, errors.Wrap(err, "reading CSV header")
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, h := range CSVHeaders {
		if _, ok := idx[h]; !ok {
			return nil, errors.Wrap(ErrMissingColumn, h)
		}
	}

	var rows []NewStudent
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading CSV row")
		}
		cell := func(h string) string {
			i, ok := idx[h]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		email := strings.TrimSpace(cell(HeaderEmail))
		rows = append(rows, NewStudent{
			Name:        cell(HeaderName),
			FatherName:  cell(HeaderFatherName),
			MotherName:  cell(HeaderMotherName),
			RollNumber:  cell(HeaderRollNumber),
			Gender:      cell(HeaderGender),
			PhoneNumber: cell(HeaderPhoneNumber),
			DateOfBirth: cell(HeaderDateOfBirth),
			Address:     cell(HeaderAddress),
			Email:       null.NewString(email, email != ""),
		})
	}
	return rows, nil
}

// WriteCSV encodes students with the upload headers, so the output can be uploaded again.
func WriteCSV(w io.Writer, students []Student) error {
	wr := csv.NewWriter(w)
	if err := wr.Write(append(append([]string{}, CSVHeaders...), HeaderEmail)); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for _, s := range students {
		rec := []string{
			s.Name, s.FatherName, s.MotherName, s.RollNumber,
			s.Gender, s.PhoneNumber, s.DateOfBirth, s.Address, s.Email.String,
		}
		if err := wr.Write(rec); err != nil {
			return errors.Wrap(err, "writing CSV row")
		}
	}
	wr.Flush()
	return errors.Wrap(wr.Error(), "flushing CSV")
}
