package tracing

// Span attribute keys shared by the glossary, query and render layers.
const (
	AttrGlossaryPath  = "glossary.path"
	AttrGlossaryItems = "glossary.items"

	AttrAcronymID      = "acronym.id"
	AttrAcronymClasses = "acronym.classes"
	AttrAcronymFound   = "acronym.found"

	AttrRequestID = "request.id"
	AttrCacheHit  = "cache.hit"

	AttrRenderSpans   = "render.spans"
	AttrRenderUnknown = "render.unknown"

	AttrErrorMessage = "error.message"
)
