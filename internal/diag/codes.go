package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// front-end
	SynInfo            Code = 2000
	SynInvalidDocument Code = 2001
	SynBadExpression   Code = 2002
	SynMissingField    Code = 2003
	SynDuplicateID     Code = 2004

	// name and type resolution
	SemaInfo             Code = 3000
	SemaUnknownType      Code = 3001
	SemaUnknownProperty  Code = 3002
	SemaUnresolvedRef    Code = 3003
	SemaImportFailed     Code = 3004
	SemaRecursiveImport  Code = 3005
	SemaDuplicateExport  Code = 3006
	SemaRecursiveElement Code = 3007

	// io
	IOLoadFileError Code = 4001

	// project manifest
	ProjInvalidManifest Code = 5001

	// lowering passes
	LowerInfo             Code = 6000
	LowerDuplicateMenuBar Code = 6001
	LowerMisplacedMenuBar Code = 6002
	LowerMissingStdType   Code = 6003
	LowerGatedMenuBar     Code = 6004
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	SynInfo:               "Syntax information",
	SynInvalidDocument:    "Invalid document",
	SynBadExpression:      "Malformed binding expression",
	SynMissingField:       "Missing required field",
	SynDuplicateID:        "Duplicate element id",
	SemaInfo:              "Semantic information",
	SemaUnknownType:       "Unknown element type",
	SemaUnknownProperty:   "Unknown property",
	SemaUnresolvedRef:     "Unresolved element reference",
	SemaImportFailed:      "Import failed",
	SemaRecursiveImport:   "Recursive import",
	SemaDuplicateExport:   "Duplicate component",
	SemaRecursiveElement:  "Recursive component instantiation",
	IOLoadFileError:       "I/O error",
	ProjInvalidManifest:   "Invalid project manifest",
	LowerInfo:             "Lowering information",
	LowerDuplicateMenuBar: "Only one MenuBar is allowed in a Window",
	LowerMisplacedMenuBar: "MenuBar outside of a Window",
	LowerMissingStdType:   "Missing standard library type",
	LowerGatedMenuBar:     "MenuBar cannot be conditional or repeated",
}

// ID returns the stable textual code, e.g. "LWR6001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("LWR%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
