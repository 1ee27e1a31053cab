/*
	Package openaddr holds the closed hashing (open addressing) hashtables. Every
	table in here keeps its entries directly in a power of two sized slot array and
	resolves collisions by walking a probe sequence starting at the key's home bucket.

	LinearMap
	---------
	Probes home, home+step, home+2*step, ... (mod n). Deleted slots become tombstones
	so sequences running through them stay intact. Inserts do not look for an
	existing copy of the key unless the map was created with UniqueKeys.

	ParametricMap
	-------------
	The i-th probe sits at home + floor(i/2 + i^p/2) (mod n). With p=1 this is plain
	linear probing, with p=2 it walks the triangular numbers, which visit every slot
	of a power of two sized table exactly once. More on this here:
	01) https://en.wikipedia.org/wiki/Quadratic_probing
	02) https://fgiesen.wordpress.com/2015/02/22/triangular-numbers-mod-2n/

	RobinHoodMap
	------------
	This hash map implementation uses linear probing, but the exact algorithm it
	utilizes is called 'robin hood hashing.' More information about this can
	technique can be found in the links provided below:
	01) https://andre.arko.net/2017/08/24/robin-hood-hashing/
	02) https://cs.uwaterloo.ca/research/tr/1986/CS-86-14.pdf
	03) https://www.sebastiansylvan.com/post/robin-hood-hashing-should-be-your-default-hash-table-implementation/
	04) http://codecapsule.com/2013/11/11/robin-hood-hashing/
	05) http://codecapsule.com/2013/11/17/robin-hood-hashing-backward-shift-deletion/
	The basic principal is:
	-----------------------
	1) Calculate the hash value and initial index of the entry to be inserted
	2) Search the position in the array linearly
	3) While searching, the distance from initial index is kept which is called DIB(Distance from Initial Bucket)
	4) If we can find the empty bucket, we can insert the entry with DIB here
	5) If we encounter a entry which has less DIB than the one of the entry to be inserted, swap them.
	6) On delete, pull every following entry that is not in its initial bucket back by one.
*/
package openaddr
