// Package checklist assembles the document list for an incentive filing.
package checklist

import (
	"github.com/okian/termico/internal/domain/model"
	"github.com/okian/termico/internal/domain/refdata"
)

// Document is one required or optional filing document.
type Document = refdata.Document

// Result groups the documents in the order they are presented. Lists are
// never nil.
type Result struct {
	Category           model.Category        `json:"category"`
	ApplicantType      model.ApplicantType   `json:"applicant_type"`
	Procedure          model.AccessProcedure `json:"access_procedure"`
	Base               []Document            `json:"base_documents"`
	CategorySpecific   []Document            `json:"category_documents"`
	ApplicantSpecific  []Document            `json:"applicant_documents"`
	ProcedureSpecific  []Document            `json:"procedure_documents"`
	TotalDocuments     int                   `json:"total_documents"`
	MandatoryDocuments int                   `json:"mandatory_documents"`
	SubmissionDeadline string                `json:"submission_deadline"`
}

// All returns every document in presentation order.
func (r Result) All() []Document {
	out := make([]Document, 0, r.TotalDocuments)
	out = append(out, r.Base...)
	out = append(out, r.CategorySpecific...)
	out = append(out, r.ApplicantSpecific...)
	return append(out, r.ProcedureSpecific...)
}

// Builder builds checklists from a reference table.
type Builder struct {
	ref *refdata.Table
}

// New returns a Builder over ref; a nil ref selects the embedded table.
func New(ref *refdata.Table) *Builder {
	if ref == nil {
		ref = refdata.Default()
	}
	return &Builder{ref: ref}
}

// Build returns the checklist for the given category, applicant and procedure.
func (b *Builder) Build(category model.Category, applicant model.ApplicantType, procedure model.AccessProcedure) Result {
	r := Result{
		Category:           category,
		ApplicantType:      applicant,
		Procedure:          procedure,
		Base:               b.ref.BaseDocuments(),
		CategorySpecific:   b.ref.CategoryDocuments(category),
		ApplicantSpecific:  []Document{},
		ProcedureSpecific:  []Document{},
		SubmissionDeadline: b.ref.Deadline(procedure),
	}
	if applicant == model.ApplicantPublicAdministration {
		r.ApplicantSpecific = b.ref.PublicAdministrationDocuments()
	}
	if procedure == model.ProcedureReservation {
		r.ProcedureSpecific = b.ref.ReservationDocuments()
	}

	r.TotalDocuments = len(r.Base) + len(r.CategorySpecific) + len(r.ApplicantSpecific) + len(r.ProcedureSpecific)
	for _, d := range r.All() {
		if d.Mandatory {
			r.MandatoryDocuments++
		}
	}
	return r
}
