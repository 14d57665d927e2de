package htmltree

// foreignRootNamespace reports the namespace entered when tagName appears
// as a start tag in the InBody mode: <svg> and <math> are the two
// foreign-content entry points the Standard defines.
func foreignRootNamespace(tagName string) (string, bool) {
	switch tagName {
	case "svg":
		return "svg", true
	case "math":
		return "mathml", true
	}
	return "", false
}

// svgTagNameFixups case-corrects a fixed set of SVG tag names that are
// not all-lowercase in the SVG specification (HTML5 §12.2.6.5's SVG
// "adjust SVG tag names" table, trimmed to commonly-seen elements).
var svgTagNameFixups = map[string]string{
	"foreignobject": "foreignObject",
	"lineargradient": "linearGradient",
	"radialgradient": "radialGradient",
	"textpath":       "textPath",
	"clippath":       "clipPath",
}

// AdjustSVGTagName case-corrects a foreign-content tag name for the SVG
// namespace; callers outside this package use it when they need the
// canonical spelling without a full tree-builder pass.
func AdjustSVGTagName(name string) string {
	if fixed, ok := svgTagNameFixups[name]; ok {
		return fixed
	}
	return name
}

// svgAttributeFixups is the SVG "adjust SVG attributes" table (HTML5
// §12.2.6.5): a fixed set of camelCase attribute names that the
// tokenizer otherwise lowercases.
var svgAttributeFixups = map[string]string{
	"attributename":     "attributeName",
	"attributetype":     "attributeType",
	"basefrequency":     "baseFrequency",
	"baseprofile":       "baseProfile",
	"calcmode":          "calcMode",
	"clippath":          "clipPath",
	"clippathunits":     "clipPathUnits",
	"contentscripttype": "contentScriptType",
	"contentstyletype":  "contentStyleType",
	"definitionurl":     "definitionURL",
	"diffuseconstant":   "diffuseConstant",
	"edgemode":          "edgeMode",
	"externalresourcesrequired": "externalResourcesRequired",
	"filterunits":               "filterUnits",
	"glyphref":                  "glyphRef",
	"gradienttransform":         "gradientTransform",
	"gradientunits":             "gradientUnits",
	"kernelmatrix":              "kernelMatrix",
	"kernelunitlength":          "kernelUnitLength",
	"keypoints":                 "keyPoints",
	"keysplines":                "keySplines",
	"keytimes":                  "keyTimes",
	"lengthadjust":              "lengthAdjust",
	"limitingconeangle":         "limitingConeAngle",
	"markerheight":              "markerHeight",
	"markerunits":               "markerUnits",
	"markerwidth":               "markerWidth",
	"maskcontentunits":          "maskContentUnits",
	"maskunits":                 "maskUnits",
	"numoctaves":                "numOctaves",
	"pathlength":                "pathLength",
	"patterncontentunits":       "patternContentUnits",
	"patterntransform":          "patternTransform",
	"patternunits":              "patternUnits",
	"pointsatx":                 "pointsAtX",
	"pointsaty":                 "pointsAtY",
	"pointsatz":                 "pointsAtZ",
	"preservealpha":             "preserveAlpha",
	"preserveaspectratio":       "preserveAspectRatio",
	"primitiveunits":            "primitiveUnits",
	"refx":                      "refX",
	"refy":                      "refY",
	"repeatcount":               "repeatCount",
	"repeatdur":                 "repeatDur",
	"requiredextensions":        "requiredExtensions",
	"requiredfeatures":          "requiredFeatures",
	"specularconstant":          "specularConstant",
	"specularexponent":          "specularExponent",
	"spreadmethod":              "spreadMethod",
	"startoffset":               "startOffset",
	"stddeviation":              "stdDeviation",
	"stitchtiles":               "stitchTiles",
	"surfacescale":              "surfaceScale",
	"systemlanguage":            "systemLanguage",
	"tablevalues":               "tableValues",
	"targetx":                   "targetX",
	"targety":                   "targetY",
	"textlength":                "textLength",
	"viewbox":                   "viewBox",
	"viewtarget":                "viewTarget",
	"xchannelselector":          "xChannelSelector",
	"ychannelselector":          "yChannelSelector",
	"zoomandpan":                "zoomAndPan",
}

// foreignNamespacedAttrs is the fixed set of xlink:/xml:/xmlns[:xlink]
// attributes recognized in foreign content (HTML5 §12.2.6.5's "adjust
// foreign attributes" table).
var foreignNamespacedAttrs = map[string]struct{ local, ns string }{
	"xlink:actuate": {"actuate", "xlink"},
	"xlink:arcrole":  {"arcrole", "xlink"},
	"xlink:href":     {"href", "xlink"},
	"xlink:role":     {"role", "xlink"},
	"xlink:show":     {"show", "xlink"},
	"xlink:title":    {"title", "xlink"},
	"xlink:type":     {"type", "xlink"},
	"xml:lang":       {"lang", "xml"},
	"xml:space":      {"space", "xml"},
	"xmlns":          {"xmlns", "xmlns"},
	"xmlns:xlink":    {"xlink", "xmlns"},
}

// correctForeignAttribute applies the SVG camelCase fixup (namespace
// "svg" only) and the xlink/xml/xmlns namespace table (both svg and
// mathml), returning the attribute's corrected local name and resolved
// namespace ("" if none).
func correctForeignAttribute(namespace, name string) (string, string) {
	if spec, ok := foreignNamespacedAttrs[name]; ok {
		return spec.local, spec.ns
	}
	if namespace == "svg" {
		if fixed, ok := svgAttributeFixups[name]; ok {
			return fixed, ""
		}
	}
	return name, ""
}
