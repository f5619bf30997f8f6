// Package element abstracts the browser page surface the tool reads and
// writes. Callers receive elements from an injected Provider instead of
// reaching for ambient document globals, so the same code runs against a
// live Chromium page (PageProvider) or an in-process fixture
// (FixtureProvider) without modification.
//
// Reads on a provider never fail; an unknown id or unsupported selector
// yields (nil, false). QueryAll always returns an empty, non-nil slice.
//
//	prov := element.NewFixtureProvider()
//	out := prov.Add("output")
//	if el, ok := prov.ElementByID("output"); ok {
//		el.SetValue("hello")
//	}
//	fmt.Println(out.Value()) // hello
package element
