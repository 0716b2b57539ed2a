package entity

// DefaultCategory is the slug assigned to articles fetched by the latest and search paths.
const DefaultCategory = "general"

// Category describes one section of the site and the upstream query that feeds it.
type Category struct {
	Slug    string
	Label   string
	LabelAr string
	Icon    string
	Query   string
	Color   string
}

// catalogue is the fixed category table. It is never modified after initialisation;
// callers only ever receive copies.
var catalogue = [...]Category{
	{Slug: "general", Label: "Actualités", LabelAr: "أخبار", Icon: "📰", Query: "Maroc actualités", Color: "bg-red-600"},
	{Slug: "politique", Label: "Politique", LabelAr: "سياسة", Icon: "🏛️", Query: "Maroc politique gouvernement", Color: "bg-blue-700"},
	{Slug: "culture", Label: "Culture", LabelAr: "ثقافة", Icon: "🎭", Query: "Maroc culture art musique", Color: "bg-purple-600"},
	{Slug: "tourisme", Label: "Tourisme", LabelAr: "سياحة", Icon: "✈️", Query: "Maroc tourisme voyage", Color: "bg-amber-500"},
	{Slug: "economie", Label: "Économie", LabelAr: "اقتصاد", Icon: "💼", Query: "Maroc économie investissement", Color: "bg-green-700"},
	{Slug: "sport", Label: "Sport", LabelAr: "رياضة", Icon: "⚽", Query: "Maroc sport football", Color: "bg-orange-500"},
	{Slug: "technologie", Label: "Technologie", LabelAr: "تكنولوجيا", Icon: "💻", Query: "Maroc technologie numérique startup", Color: "bg-sky-600"},
	{Slug: "societe", Label: "Société", LabelAr: "مجتمع", Icon: "🏘️", Query: "Maroc société social éducation", Color: "bg-teal-600"},
}

// Categories returns the category catalogue in display order.
// The returned slice is a fresh copy.
func Categories() []Category {
	out := make([]Category, len(catalogue))
	copy(out, catalogue[:])
	return out
}

// CategoryBySlug looks up a category by its slug.
func CategoryBySlug(slug string) (Category, bool) {
	for _, c := range catalogue {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}

// IsValidCategory reports whether slug names a catalogue category.
func IsValidCategory(slug string) bool {
	_, ok := CategoryBySlug(slug)
	return ok
}
