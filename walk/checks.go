package walk

import (
	"strings"

	"phpdoctype.dev/phpdoctype/diag"
	"phpdoctype.dev/phpdoctype/internal/config"
	"phpdoctype.dev/phpdoctype/phpdoc"
	"phpdoctype.dev/phpdoctype/phptype"
	"phpdoctype.dev/phpdoctype/token"
)

// php81 is the encoded (major*10000 + minor*100) version the "never"
// return type became available in.
const php81 = 80100

// checkTypePair runs the type-match/style/PHPFig checks common to
// @param, @return and @var against one native/doc annotation pair.
// occ.Content is the tag's full raw content; only its leading type
// production is parsed, the rest (name, description) is ignored.
// blockPtr is the enclosing doc comment's own token position, needed
// alongside occ.ContentOffset to record a style fix: occ.Ptr itself
// sits interior to the DocComment token and no scanner token starts
// there, so a Fix must be anchored at blockPtr and spliced in by
// offset instead. styleCode and phpFigCode let @var report under its
// own dedicated codes instead of @param/@return's.
func (w *Walker) checkTypePair(scope phptype.Scope, blockPtr token.Pos, occ *phpdoc.TagOccurrence, nativeText, mismatchCode, styleCode, phpFigCode, label string) {
	docText := occ.Content
	if nativeText == "" || docText == "" {
		return
	}
	nativeRes := phptype.ParseTypeAndName(scope, nativeText, phptype.WantType, true, w.hier)
	docRes := phptype.ParseTypeAndName(scope, docText, phptype.WantType, false, w.hier)
	if !nativeRes.TypeOK || !docRes.TypeOK {
		return
	}

	if w.cfg.CheckTypeMatch && !phptype.Compare(nativeRes.Type, docRes.Type, scope, w.hier) {
		w.reporter.AddError(mismatchCode, occ.Ptr, "%s type %s does not match native type %s",
			label, docRes.Type.String(), nativeRes.Type.String())
	}
	if w.cfg.CheckPhpFig && !docRes.PHPFig {
		w.reporter.AddWarning(phpFigCode, occ.Ptr, "%s type uses constructs beyond the published PHPDoc standard", label)
	}
	if w.cfg.CheckStyle {
		consumed := len(docText) - len(docRes.Rem)
		if consumed >= 0 && consumed <= len(docText) {
			original := docText[:consumed]
			if docRes.Fixed != original {
				// A fix's Edit can only splice a single, non-overlapping
				// byte range; a replacement spanning a newline can't be
				// expressed that way, so it stays report-only.
				fixable := !strings.Contains(original, "\n")
				if !fixable {
					w.reporter.AddWarning(styleCode, occ.Ptr, "%s type %q should be written %q", label, original, docRes.Fixed)
				} else if w.reporter.AddFixableWarning(styleCode, occ.Ptr, "%s type %q should be written %q", label, original, docRes.Fixed) {
					w.reporter.BeginChangeset()
					w.reporter.ReplaceToken(blockPtr, occ.ContentOffset, len(original), docRes.Fixed)
					w.reporter.EndChangeset()
				}
			}
		}
	}
}

func (w *Walker) checkPassSplat(scope phptype.Scope, docPos token.Pos, nativeSplat, docContent string) {
	if !w.cfg.CheckPassSplat {
		return
	}
	res := phptype.ParseTypeAndName(scope, docContent, phptype.WantPassSplat, false, w.hier)
	if !res.TypeOK {
		return
	}
	if res.PassSplat != nativeSplat {
		w.reporter.AddError(diag.CodePassSplatMismatch, docPos,
			"doc pass/splat marker %q does not match native %q", res.PassSplat, nativeSplat)
	}
}

func (w *Walker) checkFunction(scope phptype.Scope, namePos token.Pos, name string, params []Param, retText string, doc *phpdoc.Block, mods funcModifiers) {
	hasSignature := len(params) > 0 || (retText != "" && !isVoidish(retText))

	if w.cfg.CheckPhpFig && retText == "never" && w.cfg.MinPHPVersion > 0 && w.cfg.MinPHPVersion < php81 {
		w.reporter.AddWarning(diag.CodeNativeVersionGate, namePos,
			"function %s declares a never return type, which requires PHP 8.1, but this project targets PHP %s",
			name, config.FormatVersion(w.cfg.MinPHPVersion))
	}

	if w.cfg.CheckHasDocBlocks && mods.IsPublic && hasSignature && (doc == nil || docEmpty(doc)) {
		w.reporter.AddWarning(diag.CodeFunMissingDoc, namePos, "function %s is missing a doc comment", name)
	}
	if doc == nil {
		return
	}

	paramTags := map[string]*phpdoc.TagOccurrence{}
	var paramOrder []string
	for _, occ := range doc.Get("param") {
		pname := extractParamName(occ.Content)
		if pname == "" {
			continue
		}
		if _, dup := paramTags[pname]; dup {
			if w.cfg.CheckNoMisplaced {
				w.reporter.AddWarning(diag.CodeTagDuplicate, occ.Ptr, "duplicate @param $%s", pname)
			}
			continue
		}
		paramTags[pname] = occ
		paramOrder = append(paramOrder, pname)
	}

	retTags := doc.Get("return")
	if w.cfg.CheckNoMisplaced && len(retTags) > 1 {
		w.reporter.AddWarning(diag.CodeTagMultipleReturn, retTags[1].Ptr, "multiple @return tags")
	}

	if w.cfg.CheckHasTags && len(params) > 0 && len(paramTags) == 0 {
		w.reporter.AddWarning(diag.CodeFunParamType, namePos, "function %s's doc comment is missing @param tags", name)
	}
	if w.cfg.CheckHasTags && retText != "" && !isVoidish(retText) && len(retTags) == 0 {
		w.reporter.AddWarning(diag.CodeFunRetType, namePos, "function %s's doc comment is missing an @return tag", name)
	}

	if w.cfg.CheckNoMisplaced && len(paramOrder) == len(params) {
		for i, p := range params {
			want := strings.TrimPrefix(p.Name, "$")
			if paramOrder[i] != want {
				w.reporter.AddWarning(diag.CodeParamOrder, paramTags[paramOrder[i]].Ptr, "@param order does not match the signature")
				break
			}
		}
	}

	for _, p := range params {
		tag, ok := paramTags[strings.TrimPrefix(p.Name, "$")]
		if !ok {
			continue
		}
		label := "@param $" + strings.TrimPrefix(p.Name, "$")
		w.checkTypePair(scope, doc.Ptr, tag, p.TypeText, diag.CodeFunParamMismatch, diag.CodeTypeStyle, diag.CodeTypePhpFig, label)
		w.checkPassSplat(scope, tag.Ptr, p.PassSplat, tag.Content)
	}

	if len(retTags) > 0 {
		w.checkTypePair(scope, doc.Ptr, retTags[0], retText, diag.CodeFunRetMismatch, diag.CodeTypeStyle, diag.CodeTypePhpFig, "@return")
	}
}

func (w *Walker) checkProperty(scope phptype.Scope, pos token.Pos, name, typeText string, doc *phpdoc.Block) {
	if w.cfg.CheckHasDocBlocks && (doc == nil || docEmpty(doc)) {
		w.reporter.AddWarning(diag.CodeClassMissingDoc, pos, "property $%s is missing a doc comment", name)
		return
	}
	if doc == nil {
		return
	}
	if !doc.Has("var") {
		if w.cfg.CheckHasTags {
			w.reporter.AddWarning(diag.CodeVarType, pos, "property $%s's doc comment is missing an @var tag", name)
		}
		return
	}
	varTag := doc.Get("var")[0]
	w.checkTypePair(scope, doc.Ptr, varTag, typeText, diag.CodeVarMismatch, diag.CodeVarTypeStyle, diag.CodeClassPropPhpFig, "@var $"+name)
}

func (w *Walker) checkClassHasDoc(pos token.Pos, name string, doc *phpdoc.Block) {
	if w.cfg.CheckHasDocBlocks && (doc == nil || docEmpty(doc)) {
		w.reporter.AddWarning(diag.CodeClassMissingDoc, pos, "class %s is missing a doc comment", name)
	}
}

// docEmpty reports whether a present doc comment carries no usable
// content at all ("/** */" or purely decorative whitespace/stars),
// which for the has-doc-blocks check is indistinguishable from no doc
// comment being written at all.
func docEmpty(doc *phpdoc.Block) bool {
	return doc.Description() == "" && len(doc.Tags) == 0
}

// processPossVarComment validates an orphan doc comment's @var tags
// syntactically: one that never got attached to a following
// declaration (a standalone "/** @var Foo */" hint above an
// expression statement) still owes its author a well-formed type.
func (w *Walker) processPossVarComment(scope phptype.Scope, doc *phpdoc.Block) {
	if !w.cfg.CheckNoMisplaced || !doc.Has("var") {
		return
	}
	for _, occ := range doc.Get("var") {
		res := phptype.ParseTypeAndName(scope, occ.Content, phptype.WantType, false, w.hier)
		if !res.TypeOK {
			w.reporter.AddWarning(diag.CodeTagMisplaced, occ.Ptr, "@var tag has an unparsable type")
		}
	}
}
