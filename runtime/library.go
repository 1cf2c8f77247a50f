package runtime

var preludeForms = []string{
	`
(define (last xs)
  (car (reverse xs)))
`,
	`
(define (nth xs n)
  (if (== n 0)
      (car xs)
      (nth (cdr xs) (- n 1))))
`,
	`
(define (sum xs)
  (foldl + 0 xs))
`,
}
