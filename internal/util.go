package internal

// Lineage follows parent links from id until a negative index and returns
// the visited ids root first.
func Lineage(id int, parent func(int) int) []int {
	var ids []int
	for current := id; current >= 0; current = parent(current) {
		ids = append(ids, current)
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}
