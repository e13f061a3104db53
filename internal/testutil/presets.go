package testutil

// WithStandardEndings adds the plural and genitive endings most glossaries
// carry.
func (b *Builder) WithStandardEndings() *Builder {
	return b.
		WithEnding("pl", "s", "s").
		WithEnding("gen", "", "'s").
		WithEnding("plural-gen", "s'", "")
}

// WithStandardTestData adds the standard endings plus a small set of
// entries, one of which overrides its plural.
//
//	AD    Anno Domini
//	NATO  North Atlantic Treaty Organization
//	plos  Public Library of Science, plural short form PLOSes
func (b *Builder) WithStandardTestData() *Builder {
	return b.
		WithStandardEndings().
		WithAcronym("AD", "Anno Domini", "AD").
		WithAcronym("NATO", "North Atlantic Treaty Organization", "NATO").
		WithAcronym("plos", "Public Library of Science", "PLOS",
			LongSuffix("pl", " journals"),
			ShortForm("pl", "PLOSes"))
}
