package pipeline

import (
	"github.com/backmassage/samplenorm/internal/config"
	"github.com/backmassage/samplenorm/internal/naming"
	"github.com/backmassage/samplenorm/internal/probe"
)

// Action is the minimal set of operations a file needs to reach canonical
// form. It is a pure function of the file's current name and probed format,
// so a second run over processed files always decides ActionNone.
type Action int

const (
	ActionNone Action = iota
	ActionRename
	ActionConvert
	ActionRenameAndConvert
)

// NeedsRename reports whether the action includes a rename.
func (a Action) NeedsRename() bool {
	return a == ActionRename || a == ActionRenameAndConvert
}

// NeedsConvert reports whether the action includes a format conversion.
func (a Action) NeedsConvert() bool {
	return a == ActionConvert || a == ActionRenameAndConvert
}

func (a Action) String() string {
	switch a {
	case ActionRename:
		return "rename"
	case ActionConvert:
		return "convert"
	case ActionRenameAndConvert:
		return "rename, convert"
	default:
		return "none"
	}
}

// Decide combines the name rule and the probed format into an action.
// format is nil when the file was not probed or the probe failed; for
// canonical-container files that means "assume conversion needed" (the
// fail-safe default), and for every other container conversion is always
// needed regardless of format. The same decision runs in preview and apply
// modes.
func Decide(base string, format *probe.AudioInfo) Action {
	stem := naming.Stem(base)
	needsRename := naming.Normalize(stem) != stem

	var needsConvert bool
	if naming.Ext(base) == config.CanonicalExt {
		needsConvert = format == nil ||
			format.SampleRate != config.CanonicalSampleRate ||
			format.BitsPerSample != config.CanonicalBitDepth
	} else {
		needsConvert = true
	}

	switch {
	case needsRename && needsConvert:
		return ActionRenameAndConvert
	case needsRename:
		return ActionRename
	case needsConvert:
		return ActionConvert
	default:
		return ActionNone
	}
}
