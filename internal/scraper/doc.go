// Package scraper fetches election results pages and extracts their tables.
//
// A run starts from an index page that lists municipalities. The page is
// checked for the phrases every genuine results listing carries, then each
// listed municipality's detail page is fetched and reduced to a summary
// record and a list of party results. Extraction is positional and follows
// the table layout of volby.cz.
package scraper
