package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/frsuministros/orderflow/internal/model"
	"github.com/frsuministros/orderflow/internal/normalize"
	"github.com/google/uuid"
)

// Order payloads arrive pasted from tooling that emits single-quoted
// pseudo-JSON. The parser repairs the quoting, then decodes.
type orderPayload struct {
	Items     []orderItem `json:"items"`
	WorkOrder any         `json:"work_order"`
	Employee  any         `json:"employee"`
}

type orderItem struct {
	Product   any `json:"product"`
	Size      any `json:"size"`
	Quantity  any `json:"quantity"`
	WorkOrder any `json:"work_order"`
	Employee  any `json:"employee"`
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// stripHTML flattens an HTML body into plain text good enough for the
// JSON extractor: tags become spaces, entities are decoded.
func stripHTML(s string) string {
	return normalize.CollapseSpaces(html.UnescapeString(tagRe.ReplaceAllString(s, " ")))
}

// ParseOrderBody extracts work items from one email body. A body that does
// not contain a decodable order payload yields no items rather than an
// error; the message is still acknowledged by the caller so it cannot wedge
// the inbox.
func ParseOrderBody(body, sourceID string) []model.WorkItem {
	if sourceID == "" {
		sourceID = uuid.New().String()
	}

	raw := extractJSON(body)
	if raw == "" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var payload orderPayload
	if err := dec.Decode(&payload); err != nil {
		return nil
	}

	var items []model.WorkItem
	for _, it := range payload.Items {
		product := strings.TrimSpace(asString(it.Product))
		size := strings.TrimSpace(asString(it.Size))
		if strings.EqualFold(size, "N/A") {
			size = ""
		}

		description := strings.TrimSpace(product + " " + size)

		workOrder := asString(it.WorkOrder)
		if workOrder == "" {
			workOrder = asString(payload.WorkOrder)
		}
		employee := asString(it.Employee)
		if employee == "" {
			employee = asString(payload.Employee)
		}

		items = append(items, model.WorkItem{
			Description: description,
			Quantity:    asString(it.Quantity),
			SourceID:    sourceID,
			WorkOrderID: workOrder,
			EmployeeID:  employee,
		})
	}
	return items
}

// asString coerces a payload field to text without normalizing it. The
// decoder runs with UseNumber, so numeric fields keep their written form.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// extractJSON pulls the outermost {...} span from the body and repairs
// single-quoted keys and values.
func extractJSON(body string) string {
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end <= start {
		return ""
	}
	raw := body[start : end+1]

	// The upstream form tool emits Python-style reprs. Swapping quote
	// characters wholesale is safe because order fields never contain
	// double quotes.
	if !strings.Contains(raw, `"`) {
		raw = strings.ReplaceAll(raw, "'", `"`)
	}
	return raw
}
