package services

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/store-it/rental-service/internal/models"
)

// DocumentRenderer produces the artifacts attached to party
// notifications. The lifecycle code never inspects the bytes.
type DocumentRenderer interface {
	RenderContractDocument(c *models.Contract, client *models.Client, agent *models.SalesAgent) ([]byte, error)
	RenderDebtNotice(c *models.Contract, client *models.Client) ([]byte, error)
}

const contractDocumentTmpl = `STORAGE RENTAL CONTRACT {{.Contract.ID}}

Client: {{.Client.Name}} <{{.Client.Email}}>
Sales agent: {{.Agent.Name}} <{{.Agent.Email}}>
Space: {{.Contract.SpaceID}}

Term: {{.Contract.StartDate.Format "2006-01-02"}} to {{.Contract.EndDate.Format "2006-01-02"}}
Value: {{printf "%.2f" .Contract.Value}}
State: {{.Contract.State}}
{{- if .Contract.Description}}

{{.Contract.Description}}
{{- end}}
{{- if .Contract.BillingDetails}}

Billing details:
{{- range .Contract.BillingDetails}}
  - {{.Description}}: {{printf "%.2f" .Amount}}
{{- end}}
{{- end}}

Client signed: {{if .Contract.ClientSignedAt}}{{.Contract.ClientSignedAt.Format "2006-01-02 15:04"}}{{else}}pending{{end}}
Agent signed: {{if .Contract.AgentSignature}}yes{{else}}pending{{end}}
`

const debtNoticeTmpl = `DEBT NOTICE

Contract {{.Contract.ID}} was cancelled while active.

Client: {{.Client.Name}} <{{.Client.Email}}>
Outstanding value: {{printf "%.2f" .Contract.Value}}
Term: {{.Contract.StartDate.Format "2006-01-02"}} to {{.Contract.EndDate.Format "2006-01-02"}}

The outstanding amount remains due under the contract's terms.
`

type textRenderer struct {
	contract *template.Template
	debt     *template.Template
}

// NewTextRenderer renders plain-text documents. It satisfies the same
// contract a PDF renderer would; delivery only cares about bytes.
func NewTextRenderer() (DocumentRenderer, error) {
	contract, err := template.New("contract").Parse(contractDocumentTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse contract template: %w", err)
	}
	debt, err := template.New("debt").Parse(debtNoticeTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse debt notice template: %w", err)
	}
	return &textRenderer{contract: contract, debt: debt}, nil
}

func (r *textRenderer) RenderContractDocument(c *models.Contract, client *models.Client, agent *models.SalesAgent) ([]byte, error) {
	var buf bytes.Buffer
	err := r.contract.Execute(&buf, map[string]any{
		"Contract": c,
		"Client":   client,
		"Agent":    agent,
	})
	if err != nil {
		return nil, fmt.Errorf("render contract document: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *textRenderer) RenderDebtNotice(c *models.Contract, client *models.Client) ([]byte, error) {
	var buf bytes.Buffer
	err := r.debt.Execute(&buf, map[string]any{
		"Contract": c,
		"Client":   client,
	})
	if err != nil {
		return nil, fmt.Errorf("render debt notice: %w", err)
	}
	return buf.Bytes(), nil
}
