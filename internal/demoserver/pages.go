package demoserver

// PageDefinition is one demo page with a known set of SEO problems, used to
// exercise the analyzer against predictable inputs.
type PageDefinition struct {
	Path        string
	Description string
	HTML        string
	SlowMs      int // artificial delay before responding
}

// GetAllPages returns the demo catalogue. Each page trips a different subset
// of checks so analyzer output can be verified by eye.
func GetAllPages() []PageDefinition {
	return []PageDefinition{
		{
			Path:        "/",
			Description: "Well-formed page that should score high",
			HTML: `<!DOCTYPE html>
<html lang="en">
<head>
<title>Demo Shop - Quality Goods at Fair Prices Online</title>
<meta name="description" content="Demo Shop sells quality household goods at fair prices with fast shipping and a thirty day return policy for every order.">
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>@media (max-width: 600px) { body { font-size: 14px; } }</style>
</head>
<body>
<h1>Quality Goods at Fair Prices</h1>
<p>` + filler + `</p>
<img src="/static/shop.png" alt="Storefront photograph">
<a href="/missing-title">Catalogue</a>
<a href="/mobile-unfriendly">About us</a>
<a href="https://example.com/partner">Partner site</a>
</body>
</html>`,
		},
		{
			Path:        "/missing-title",
			Description: "No title, overlong meta description",
			HTML: `<!DOCTYPE html>
<html>
<head>
<meta name="description" content="This description goes on and on far beyond what any search engine will display in its snippet, repeating itself and padding its length with redundant clauses until it comfortably exceeds the one hundred and sixty character ceiling.">
<meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
<h1>Catalogue</h1>
<h1>Catalogue again</h1>
<p>Short page.</p>
<img src="/static/item.png">
<a href="/">Home</a>
</body>
</html>`,
		},
		{
			Path:        "/mobile-unfriendly",
			Description: "No viewport, no responsive hints, noindex",
			HTML: `<!DOCTYPE html>
<html>
<head>
<title>About</title>
<meta name="robots" content="noindex, nofollow">
</head>
<body>
<p>We are a small demo company.</p>
<a href="javascript:void(0)">Click me</a>
<a href="">Nowhere</a>
</body>
</html>`,
		},
		{
			Path:        "/slow",
			Description: "Responds after a three second delay",
			SlowMs:      3200,
			HTML: `<!DOCTYPE html>
<html>
<head>
<title>Slow Page - Takes Its Time To Load Every Visit</title>
<meta name="description" content="A deliberately slow page used to trip the load time checks without needing a slow network between client and server.">
<meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
<h1>Eventually</h1>
<p>` + filler + `</p>
<a href="/">Home</a>
</body>
</html>`,
		},
	}
}

// filler pushes word counts past the thin-content threshold.
const filler = `Lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod
tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam
quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo
consequat. Duis aute irure dolor in reprehenderit in voluptate velit esse
cillum dolore eu fugiat nulla pariatur. Excepteur sint occaecat cupidatat non
proident sunt in culpa qui officia deserunt mollit anim id est laborum. Sed ut
perspiciatis unde omnis iste natus error sit voluptatem accusantium doloremque
laudantium totam rem aperiam eaque ipsa quae ab illo inventore veritatis et
quasi architecto beatae vitae dicta sunt explicabo. Nemo enim ipsam voluptatem
quia voluptas sit aspernatur aut odit aut fugit sed quia consequuntur magni
dolores eos qui ratione voluptatem sequi nesciunt. Neque porro quisquam est
qui dolorem ipsum quia dolor sit amet consectetur adipisci velit sed quia non
numquam eius modi tempora incidunt ut labore et dolore magnam aliquam quaerat
voluptatem. Ut enim ad minima veniam quis nostrum exercitationem ullam
corporis suscipit laboriosam nisi ut aliquid ex ea commodi consequatur. Quis
autem vel eum iure reprehenderit qui in ea voluptate velit esse quam nihil
molestiae consequatur vel illum qui dolorem eum fugiat quo voluptas nulla
pariatur. At vero eos et accusamus et iusto odio dignissimos ducimus qui
blanditiis praesentium voluptatum deleniti atque corrupti quos dolores et quas
molestias excepturi sint occaecati cupiditate non provident similique sunt in
culpa qui officia deserunt mollitia animi id est laborum et dolorum fuga. Et
harum quidem rerum facilis est et expedita distinctio. Nam libero tempore cum
soluta nobis est eligendi optio cumque nihil impedit quo minus id quod maxime
placeat facere possimus omnis voluptas assumenda est omnis dolor repellendus.
Temporibus autem quibusdam et aut officiis debitis aut rerum necessitatibus
saepe eveniet ut et voluptates repudiandae sint et molestiae non recusandae.
Itaque earum rerum hic tenetur a sapiente delectus ut aut reiciendis
voluptatibus maiores alias consequatur aut perferendis doloribus asperiores
repellat.`
