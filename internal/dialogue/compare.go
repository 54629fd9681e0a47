package dialogue

// comparisons holds one-line differences between topic pairs. Lookup is
// order-independent.
var comparisons = []struct {
	a, b string
	text string
}{
	{"array", "linked_list", "Arrays use contiguous memory and offer O(1) index access; linked lists use dynamic nodes and allow O(1) insert/delete at head but O(n) access."},
	{"stack", "queue", "Stacks follow LIFO; queues follow FIFO. Stack removes from top; queue removes from front."},
	{"bst", "binary_tree", "A BST is a binary tree with ordering property (left < node < right). Not all binary trees are BSTs."},
	{"bst", "avl_tree", "AVL is a self-balancing BST. Both follow BST rules but AVL maintains strict height balance for guaranteed O(log n) operations."},
	{"queue", "deque", "A queue inserts at rear and deletes at front; a deque allows insert/delete at both ends."},
	{"hash_table", "binary_search", "Hash table average search is O(1); binary search is O(log n) but requires sorted array."},
	{"array", "vector", "Arrays are fixed-size; vectors are dynamic arrays that resize automatically."},
	{"vector", "linked_list", "Vectors give O(1) random access; linked lists give O(1) insert/delete but O(n) access."},
	{"graph", "tree", "A tree is a special graph with no cycles and a single root; graphs may have cycles and no root."},
	{"dfs", "bfs", "DFS goes deep first using a stack; BFS explores level-wise using a queue."},
	{"heap", "bst", "A heap maintains heap-order (parent > children or vice versa); a BST keeps keys sorted based on left < root < right."},
}

const noComparison = "(If you want a detailed comparison, ask for more details of both topics one by one,as i dont have one liner difference for it.)"

// Compare returns the canned one-line difference between two topics.
func Compare(t1, t2 string) (string, bool) {
	for _, c := range comparisons {
		if (c.a == t1 && c.b == t2) || (c.a == t2 && c.b == t1) {
			return c.text, true
		}
	}
	return "", false
}
