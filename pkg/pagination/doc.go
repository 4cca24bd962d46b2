// Package pagination provides sequential offset/limit pagination.
//
// The seller analytics API does not report a total page count. A caller
// learns there may be more data only when a page comes back full, so pages
// are requested one after another: offset = page_number * page_size, until
// a page returns fewer rows than requested.
//
// Example usage:
//
//	pager := pagination.NewPager[analytics.Record](fetcher, pagination.DefaultConfig())
//	records, err := pager.FetchAll(ctx)
//
// The pager:
//   - Requests page 0 at offset 0
//   - Requests the next page only while the previous one was full
//   - Accepts one extra empty request when the last page is exactly full
//   - Aborts on the first error without returning partial results
package pagination
