package mergecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const mergeDocumentMessageType = "docmerge.merge_document"

// MergeDocumentCommand triggers a full validate-and-merge run over Inputs,
// writing the merged document to Output. Input order determines final
// document order.
type MergeDocumentCommand struct {
	// Inputs are the markdown fragment paths in document order.
	Inputs []string `json:"inputs"`
	// Output is the merged document path. Optional in check-only mode.
	Output string `json:"output"`
	// PageBreak overrides the fragment separator emitted between files.
	PageBreak string `json:"page_break,omitempty"`
	// CheckOnly runs the registry and validation passes without writing output.
	CheckOnly bool `json:"check_only,omitempty"`
	// Verify re-parses the merged output and checks anchor integrity.
	Verify bool `json:"verify,omitempty"`
}

// Type implements command.Message.
func (MergeDocumentCommand) Type() string { return mergeDocumentMessageType }

// Validate ensures the invocation shape is usable before handlers execute.
func (cmd MergeDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Inputs, validation.Required, validation.By(func(value any) error {
			inputs, _ := value.([]string)
			for _, input := range inputs {
				if strings.TrimSpace(input) == "" {
					return validation.NewError("docmerge.merge_document.input_blank", "input paths must not be blank")
				}
			}
			return nil
		})),
		validation.Field(&cmd.Output, validation.By(func(value any) error {
			if cmd.CheckOnly {
				return nil
			}
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("docmerge.merge_document.output_required", "output is required unless check-only")
			}
			return nil
		})),
	)
}
