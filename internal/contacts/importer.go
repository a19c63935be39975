package contacts

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"whatsapp-crm/internal/models"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/datatypes"
)

// Import limits. Structural violations reject the call before any row is
// processed.
const (
	MaxFileSize     = 5 * 1024 * 1024
	MaxRows         = 10000
	insertBatchSize = 100
	maxErrorRecords = 50
)

// DuplicateMode controls what happens when a row's phone matches an
// existing contact.
type DuplicateMode string

const (
	ModeSkip   DuplicateMode = "skip"
	ModeUpdate DuplicateMode = "update"
)

// Header synonyms for the logical contact fields, matched case-insensitively
// with spaces folded to underscores ("Mobile Number" -> mobile_number).
var (
	phoneSynonyms = []string{"phone", "mobile", "number", "contact", "phone_number", "mobile_number", "whatsapp"}
	nameSynonyms  = []string{"name", "full_name", "fullname", "contact_name", "customer_name"}
	emailSynonyms = []string{"email", "email_address", "e-mail", "mail"}
	tagsSynonyms  = []string{"tags", "tag", "labels", "label"}
)

// Store is the contact-storage collaborator the importer depends on.
type Store interface {
	FindByPhones(orgID string, phones []string) ([]models.Contact, error)
	InsertBatch(rows []models.Contact) error
	UpdateByID(id uint, fields map[string]interface{}) error
}

// RowError describes one failed row in the capped error list.
type RowError struct {
	Row   int    `json:"row"`
	Phone string `json:"phone"`
	Error string `json:"error"`
}

// Result is the aggregate outcome of one import run.
type Result struct {
	Total   int        `json:"total"`
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Skipped int        `json:"skipped"`
	Failed  int        `json:"failed"`
	Errors  []RowError `json:"errors"`
}

func (r *Result) addError(row int, phone, reason string) {
	r.Failed++
	if len(r.Errors) < maxErrorRecords {
		r.Errors = append(r.Errors, RowError{Row: row, Phone: phone, Error: reason})
	}
}

// importRow is one parsed CSV line. Unrecognized columns land in custom.
type importRow struct {
	line     int // 1-based file line, header is line 1
	rawPhone string
	phone    string // canonical, set after normalization
	name     string
	hasName  bool
	email    string
	hasEmail bool
	tags     []string
	hasTags  bool
	custom   map[string]string
}

// Importer turns a CSV upload into a validated, deduplicated batch of
// contact mutations.
type Importer struct {
	store Store
}

func NewImporter(store Store) *Importer {
	return &Importer{store: store}
}

// Import parses csvText and applies it to orgID's contacts. defaultTags are
// applied to every imported row. Row failures never abort the batch; only
// structural problems (size, row count, missing phone column) return an
// error.
func (im *Importer) Import(orgID, csvText string, mode DuplicateMode, defaultTags []string) (*Result, error) {
	if mode == "" {
		mode = ModeSkip
	}
	if mode != ModeSkip && mode != ModeUpdate {
		return nil, fmt.Errorf("invalid duplicate mode %q (expected skip or update)", mode)
	}
	if len(csvText) > MaxFileSize {
		return nil, fmt.Errorf("file exceeds the %d MB limit", MaxFileSize/(1024*1024))
	}
	if strings.TrimSpace(csvText) == "" {
		return nil, errors.New("file is empty")
	}

	cols, records, err := parseCSV(csvText)
	if err != nil {
		return nil, err
	}
	if len(records) > MaxRows {
		return nil, fmt.Errorf("file has %d rows, exceeding the %d row limit", len(records), MaxRows)
	}

	result := &Result{Total: len(records)}

	rows := im.validateRows(cols, records, result)

	existing, err := im.lookupExisting(orgID, rows)
	if err != nil {
		return nil, err
	}

	var creations []models.Contact
	var creationLines []int
	seenInFile := make(map[string]bool)

	for _, row := range rows {
		if seenInFile[row.phone] {
			// later occurrence of a phone already staged from this file
			result.Skipped++
			continue
		}
		seenInFile[row.phone] = true

		if match, ok := existing[row.phone]; ok {
			if mode == ModeSkip {
				result.Skipped++
				continue
			}
			im.applyUpdate(match, row, defaultTags, result)
			continue
		}

		creations = append(creations, models.Contact{
			OrgID:        orgID,
			Phone:        row.phone,
			Name:         row.name,
			Email:        row.email,
			Tags:         MarshalTags(UnionTags(row.tags, defaultTags)),
			OptedIn:      true,
			CustomFields: marshalCustom(row.custom),
			Source:       models.SourceImport,
		})
		creationLines = append(creationLines, row.line)
	}

	im.insertBatches(creations, creationLines, result)

	return result, nil
}

// parseCSV reads the header and all data records, honoring quoted fields.
// Blank lines are skipped by the reader.
func parseCSV(csvText string) (*columnMap, [][]string, error) {
	reader := csv.NewReader(strings.NewReader(csvText))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "failed to read CSV header")
	}

	cols := resolveColumns(header)
	if cols.phone < 0 {
		return nil, nil, fmt.Errorf("no phone column found; accepted headers: %s",
			strings.Join(phoneSynonyms, ", "))
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, pkgerrors.Wrap(err, "failed to parse CSV")
		}
		records = append(records, record)
	}
	return cols, records, nil
}

type columnMap struct {
	phone  int
	name   int
	email  int
	tags   int
	custom map[int]string // column index -> custom field key
}

func resolveColumns(header []string) *columnMap {
	cols := &columnMap{phone: -1, name: -1, email: -1, tags: -1, custom: make(map[int]string)}
	for i, h := range header {
		key := foldHeader(h)
		switch {
		case cols.phone < 0 && matchesAny(key, phoneSynonyms):
			cols.phone = i
		case cols.name < 0 && matchesAny(key, nameSynonyms):
			cols.name = i
		case cols.email < 0 && matchesAny(key, emailSynonyms):
			cols.email = i
		case cols.tags < 0 && matchesAny(key, tagsSynonyms):
			cols.tags = i
		default:
			if strings.TrimSpace(h) != "" {
				cols.custom[i] = strings.TrimSpace(h)
			}
		}
	}
	return cols
}

func foldHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

func matchesAny(key string, synonyms []string) bool {
	for _, s := range synonyms {
		if key == s {
			return true
		}
	}
	return false
}

func cell(record []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(record) {
		return "", false
	}
	return strings.TrimSpace(record[idx]), true
}

// validateRows turns records into importRows, recording per-row failures.
func (im *Importer) validateRows(cols *columnMap, records [][]string, result *Result) []importRow {
	var rows []importRow
	for i, record := range records {
		line := i + 2 // header is line 1

		rawPhone, _ := cell(record, cols.phone)
		phone := NormalizePhone(rawPhone)
		if phone == "" {
			result.addError(line, rawPhone, "Invalid phone number format")
			continue
		}

		row := importRow{line: line, rawPhone: rawPhone, phone: phone}

		if v, ok := cell(record, cols.name); ok && v != "" {
			row.name = v
			row.hasName = true
		}
		if v, ok := cell(record, cols.email); ok && v != "" {
			if !ValidEmail(v) {
				result.addError(line, rawPhone, "Invalid email format")
				continue
			}
			row.email = v
			row.hasEmail = true
		}
		if v, ok := cell(record, cols.tags); ok && v != "" {
			row.tags = SplitTags(v)
			row.hasTags = true
		}
		if len(cols.custom) > 0 {
			row.custom = make(map[string]string)
			for idx, key := range cols.custom {
				if v, ok := cell(record, idx); ok && v != "" {
					row.custom[key] = v
				}
			}
		}

		rows = append(rows, row)
	}
	return rows
}

// lookupExisting fetches the org's matching contacts once, keyed by
// canonical phone, instead of one lookup per row.
func (im *Importer) lookupExisting(orgID string, rows []importRow) (map[string]models.Contact, error) {
	phones := make([]string, 0, len(rows))
	seen := make(map[string]bool)
	for _, row := range rows {
		if !seen[row.phone] {
			seen[row.phone] = true
			phones = append(phones, row.phone)
		}
	}

	existing := make(map[string]models.Contact)
	if len(phones) == 0 {
		return existing, nil
	}

	contacts, err := im.store.FindByPhones(orgID, phones)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to look up existing contacts")
	}
	for _, c := range contacts {
		existing[c.Phone] = c
	}
	return existing, nil
}

// applyUpdate stages a partial update: only fields present in the row
// overwrite existing values, tags are unioned. An empty payload is
// reclassified as skipped.
func (im *Importer) applyUpdate(match models.Contact, row importRow, defaultTags []string, result *Result) {
	fields := make(map[string]interface{})
	if row.hasName {
		fields["name"] = row.name
	}
	if row.hasEmail {
		fields["email"] = row.email
	}
	if row.hasTags || len(defaultTags) > 0 {
		merged := UnionTags(UnmarshalTags(match.Tags), row.tags, defaultTags)
		fields["tags"] = MarshalTags(merged)
	}
	if len(row.custom) > 0 {
		merged := unmarshalCustom(match.CustomFields)
		for k, v := range row.custom {
			merged[k] = v
		}
		fields["custom_fields"] = marshalCustom(merged)
	}

	if len(fields) == 0 {
		result.Skipped++
		return
	}
	if err := im.store.UpdateByID(match.ID, fields); err != nil {
		result.addError(row.line, row.rawPhone, "Failed to update contact")
		return
	}
	result.Updated++
}

// insertBatches persists staged creations in fixed-size batches. A failing
// batch marks only its own rows as failed; the rest continue.
func (im *Importer) insertBatches(creations []models.Contact, lines []int, result *Result) {
	for start := 0; start < len(creations); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(creations) {
			end = len(creations)
		}
		batch := creations[start:end]
		if err := im.store.InsertBatch(batch); err != nil {
			for i, c := range batch {
				result.addError(lines[start+i], c.Phone, "Failed to insert contact")
			}
			continue
		}
		result.Created += len(batch)
	}
}

func MarshalTags(tags []string) datatypes.JSON {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return datatypes.JSON(b)
}

func UnmarshalTags(j datatypes.JSON) []string {
	var tags []string
	if len(j) > 0 {
		_ = json.Unmarshal(j, &tags)
	}
	return tags
}

func marshalCustom(fields map[string]string) datatypes.JSON {
	if fields == nil {
		fields = map[string]string{}
	}
	b, _ := json.Marshal(fields)
	return datatypes.JSON(b)
}

func unmarshalCustom(j datatypes.JSON) map[string]string {
	fields := make(map[string]string)
	if len(j) > 0 {
		_ = json.Unmarshal(j, &fields)
	}
	return fields
}
